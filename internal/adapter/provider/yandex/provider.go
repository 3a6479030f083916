// Package yandex adapts the Yandex Dictionary API. A single lookup
// returns senses with inline usage examples, so no second request is
// needed.
package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/neotexto/neotexto-backend/internal/provider"
)

const defaultBaseURL = "https://dictionary.yandex.net/api/v1/dicservice.json"

// Provider fetches dictionary data from the Yandex Dictionary API.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default Yandex Dictionary API URL.
func NewProvider(apiKey string, logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, apiKey, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL, apiKey string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "yandex"),
	}
}

// Lookup resolves a single word into target-language senses with inline
// examples. Returns provider.ErrUnsupportedPair when the API does not
// cover the language pair.
func (p *Provider) Lookup(ctx context.Context, word, from, to string) (*provider.DictionaryLookup, error) {
	// The dictionary API has no Chinese pairs.
	if from == "zh" || to == "zh" {
		return nil, provider.ErrUnsupportedPair
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("lang", from+"-"+to)
	params.Set("text", word)
	reqURL := p.baseURL + "/lookup?" + params.Encode()

	p.log.DebugContext(ctx, "lookup request", slog.String("word", word), slog.String("lang", from+"-"+to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("yandex: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, word)
	if err != nil {
		p.log.ErrorContext(ctx, "lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, &provider.TransportError{Provider: "yandex", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotImplemented {
		return nil, provider.ErrUnsupportedPair
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &provider.TransportError{Provider: "yandex", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransportError{Provider: "yandex", Err: err}
	}

	var decoded lookupResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &provider.ParseError{Provider: "yandex", Reason: "decode lookup", Err: err}
	}

	lookup := mapLookup(word, decoded)

	p.log.DebugContext(ctx, "lookup response",
		slog.String("word", word),
		slog.Int("senses", len(lookup.Senses)),
	)

	return lookup, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "lookup retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	resp, err = p.httpClient.Do(req)
	return resp, err
}

// mapLookup converts a lookup response into a provider.DictionaryLookup.
// Only the first definition is used; its senses keep the API's order.
func mapLookup(queryWord string, decoded lookupResponse) *provider.DictionaryLookup {
	lookup := &provider.DictionaryLookup{
		NormalizedSource: queryWord,
		Senses:           []provider.DictionarySense{},
	}
	if len(decoded.Def) == 0 {
		return lookup
	}

	def := decoded.Def[0]
	if def.Text != "" {
		lookup.NormalizedSource = def.Text
	}

	for _, tr := range def.Tr {
		sense := provider.DictionarySense{
			NormalizedTarget: tr.Text,
			Examples:         []provider.ExampleSpan{},
		}
		for _, ex := range tr.Ex {
			if len(ex.Tr) == 0 {
				continue
			}
			sense.Examples = append(sense.Examples, provider.ExampleSpan{
				SourceTerm: ex.Text,
				TargetTerm: ex.Tr[0].Text,
			})
		}
		lookup.Senses = append(lookup.Senses, sense)
	}

	return lookup
}
