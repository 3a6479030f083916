package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neotexto/neotexto-backend/internal/provider"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestProvider_LookupWord_KeyOrderPreserved(t *testing.T) {
	t.Parallel()

	content := `{
		"chien": {"source": "The dog barked all night.", "target": "Le chien a aboyé toute la nuit."},
		"toutou": {"source": "The kids hugged the dog.", "target": "Les enfants ont câliné le toutou."},
		"clebs": {"source": "That dog follows me everywhere.", "target": "Ce clebs me suit partout."}
	}`

	srv := newChatServer(t, content)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	entries, err := p.LookupWord(context.Background(), "dog", "English", "French")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	wantOrder := []string{"chien", "toutou", "clebs"}
	for i, want := range wantOrder {
		if entries[i].Target != want {
			t.Errorf("entries[%d].Target = %q, want %q", i, entries[i].Target, want)
		}
	}

	if entries[0].Example == nil {
		t.Fatal("entries[0].Example is nil")
	}
	if entries[0].Example.Source != "The dog barked all night." {
		t.Errorf("entries[0].Example.Source = %q", entries[0].Example.Source)
	}
	if entries[0].Example.Target != "Le chien a aboyé toute la nuit." {
		t.Errorf("entries[0].Example.Target = %q", entries[0].Example.Target)
	}
}

func TestProvider_LookupWord_JSONSurroundedByProse(t *testing.T) {
	t.Parallel()

	content := "Sure! Here are the translations:\n" +
		`{"chien": {"source": "A dog.", "target": "Un chien."}}` +
		"\nLet me know if you need more."

	srv := newChatServer(t, content)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	entries, err := p.LookupWord(context.Background(), "dog", "English", "French")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Target != "chien" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestProvider_LookupWord_EmptyExampleOmitted(t *testing.T) {
	t.Parallel()

	content := `{"chien": {}}`

	srv := newChatServer(t, content)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	entries, err := p.LookupWord(context.Background(), "dog", "English", "French")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Example != nil {
		t.Errorf("Example = %+v, want nil", entries[0].Example)
	}
}

func TestProvider_LookupWord_ConversationalAnswer(t *testing.T) {
	t.Parallel()

	srv := newChatServer(t, "I'm sorry, I can't translate that word.")
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	_, err := p.LookupWord(context.Background(), "dog", "English", "French")

	var parseErr *provider.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestProvider_LookupWord_WrongShape(t *testing.T) {
	t.Parallel()

	// Values must be example pair objects, not strings.
	srv := newChatServer(t, `{"chien": "the French word for dog"}`)
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	_, err := p.LookupWord(context.Background(), "dog", "English", "French")

	var parseErr *provider.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestProvider_LookupWord_APIFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit"}}`)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	_, err := p.LookupWord(context.Background(), "dog", "English", "French")

	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", transportErr.Status)
	}
}

func TestProvider_Complete_ReturnsRawText(t *testing.T) {
	t.Parallel()

	srv := newChatServer(t, "Once upon a time there was a dog.")
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, "test-key", "", "gpt-3.5-turbo", newTestLogger())
	text, err := p.Complete(context.Background(), "Generate a text of 50 words in English about 'dogs' for a beginner level.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Once upon a time there was a dog." {
		t.Errorf("unexpected completion: %q", text)
	}
}

func TestBuildTranslationPrompt(t *testing.T) {
	t.Parallel()

	prompt := buildTranslationPrompt("dog", "English", "French")

	for _, want := range []string{"[[dog]]", "English word", "in French", `key "source"`, `key "target"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
