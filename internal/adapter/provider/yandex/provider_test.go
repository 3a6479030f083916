package yandex

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/neotexto/neotexto-backend/internal/provider"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_Lookup_Success(t *testing.T) {
	t.Parallel()

	body := `{
		"def": [{
			"text": "time",
			"pos": "noun",
			"tr": [
				{"text": "время", "ex": [
					{"text": "time of arrival", "tr": [{"text": "время прибытия"}]},
					{"text": "take some time", "tr": [{"text": "занять время"}]}
				]},
				{"text": "раз", "ex": [
					{"text": "every time", "tr": [{"text": "каждый раз"}]}
				]},
				{"text": "тайм"}
			]
		}]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("lang"); got != "en-ru" {
			t.Errorf("lang = %q, want %q", got, "en-ru")
		}
		if got := r.URL.Query().Get("text"); got != "time" {
			t.Errorf("text = %q, want %q", got, "time")
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want %q", got, "test-key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", newTestLogger())
	lookup, err := p.Lookup(context.Background(), "time", "en", "ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lookup.NormalizedSource != "time" {
		t.Errorf("NormalizedSource = %q, want %q", lookup.NormalizedSource, "time")
	}
	if len(lookup.Senses) != 3 {
		t.Fatalf("len(Senses) = %d, want 3", len(lookup.Senses))
	}

	if lookup.Senses[0].NormalizedTarget != "время" {
		t.Errorf("Senses[0] = %q, want %q", lookup.Senses[0].NormalizedTarget, "время")
	}
	if len(lookup.Senses[0].Examples) != 2 {
		t.Fatalf("len(Senses[0].Examples) = %d, want 2", len(lookup.Senses[0].Examples))
	}

	ex := lookup.Senses[0].Examples[0]
	if ex.SourceTerm != "time of arrival" || ex.TargetTerm != "время прибытия" {
		t.Errorf("unexpected example: %+v", ex)
	}
	if ex.SourcePrefix != "" || ex.TargetSuffix != "" {
		t.Errorf("inline examples must have empty prefixes and suffixes: %+v", ex)
	}

	if len(lookup.Senses[2].Examples) != 0 {
		t.Errorf("len(Senses[2].Examples) = %d, want 0", len(lookup.Senses[2].Examples))
	}
}

func TestProvider_Lookup_NoDefinitions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"def": []}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", newTestLogger())
	lookup, err := p.Lookup(context.Background(), "qwertyuiop", "en", "ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lookup.Senses) != 0 {
		t.Errorf("len(Senses) = %d, want 0", len(lookup.Senses))
	}
	if lookup.NormalizedSource != "qwertyuiop" {
		t.Errorf("NormalizedSource = %q, want the query word", lookup.NormalizedSource)
	}
}

func TestProvider_Lookup_UnsupportedPair(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", newTestLogger())
	_, err := p.Lookup(context.Background(), "time", "en", "fi")
	if !errors.Is(err, provider.ErrUnsupportedPair) {
		t.Fatalf("expected ErrUnsupportedPair, got %v", err)
	}
}

func TestProvider_Lookup_ChinesePair(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a Chinese pair")
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", newTestLogger())
	_, err := p.Lookup(context.Background(), "时间", "zh", "en")
	if !errors.Is(err, provider.ErrUnsupportedPair) {
		t.Fatalf("expected ErrUnsupportedPair, got %v", err)
	}
}

func TestProvider_Lookup_RetriesOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"def": [{"text": "time", "tr": [{"text": "время"}]}]}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", newTestLogger())
	lookup, err := p.Lookup(context.Background(), "time", "en", "ru")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(lookup.Senses) != 1 {
		t.Errorf("len(Senses) = %d, want 1", len(lookup.Senses))
	}
}

func TestProvider_Lookup_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "bad-key", newTestLogger())
	_, err := p.Lookup(context.Background(), "time", "en", "ru")

	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", transportErr.Status)
	}
}
