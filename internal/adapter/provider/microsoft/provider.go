// Package microsoft adapts the Microsoft Translator v3 API: dictionary
// lookup for single words, plain translation for phrases, and the
// batched examples endpoint.
package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/provider"
)

const defaultBaseURL = "https://api.cognitive.microsofttranslator.com"

// codeUnsupportedPair is the Translator API error code for a language
// pair the dictionary endpoints do not cover.
const codeUnsupportedPair = 400023

// Provider calls the Microsoft Translator v3 API.
type Provider struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default Translator API URL.
func NewProvider(apiKey, region string, logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, apiKey, region, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL, apiKey, region string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		region:     region,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "microsoft"),
	}
}

// LookupDictionary resolves a single word into ranked target-language
// senses. Returns provider.ErrUnsupportedPair when the API does not
// cover the language pair.
func (p *Provider) LookupDictionary(ctx context.Context, word, from, to string) (*provider.DictionaryLookup, error) {
	body, err := p.post(ctx, "/dictionary/lookup", from, to, []map[string]string{{"text": word}})
	if err != nil {
		return nil, err
	}

	var entries []lookupEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &provider.ParseError{Provider: "microsoft", Reason: "decode dictionary lookup", Err: err}
	}

	lookup := &provider.DictionaryLookup{NormalizedSource: word, Senses: []provider.DictionarySense{}}
	if len(entries) == 0 {
		return lookup, nil
	}

	if entries[0].NormalizedSource != "" {
		lookup.NormalizedSource = entries[0].NormalizedSource
	}
	for _, tr := range entries[0].Translations {
		lookup.Senses = append(lookup.Senses, provider.DictionarySense{
			NormalizedTarget: tr.NormalizedTarget,
			Examples:         []provider.ExampleSpan{},
		})
	}

	p.log.DebugContext(ctx, "dictionary lookup",
		slog.String("word", word),
		slog.Int("senses", len(lookup.Senses)),
	)

	return lookup, nil
}

// LookupExamples fetches usage examples for the given (source, target)
// pairs. The returned slice is positionally aligned to pairs; a pair
// with no examples yields an empty set at its position.
func (p *Provider) LookupExamples(ctx context.Context, pairs []provider.ExamplePair, from, to string) ([]provider.ExampleSet, error) {
	sets := make([]provider.ExampleSet, len(pairs))
	for i := range sets {
		sets[i].Examples = []provider.ExampleSpan{}
	}
	if len(pairs) == 0 {
		return sets, nil
	}

	reqBody := make([]map[string]string, 0, len(pairs))
	for _, pair := range pairs {
		reqBody = append(reqBody, map[string]string{
			"text":        pair.SourceTerm,
			"translation": pair.TargetTerm,
		})
	}

	body, err := p.post(ctx, "/dictionary/examples", from, to, reqBody)
	if err != nil {
		return nil, err
	}

	var entries []examplesEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &provider.ParseError{Provider: "microsoft", Reason: "decode dictionary examples", Err: err}
	}

	for i := range sets {
		if i >= len(entries) {
			break
		}
		for _, ex := range entries[i].Examples {
			sets[i].Examples = append(sets[i].Examples, provider.ExampleSpan{
				SourcePrefix: ex.SourcePrefix,
				SourceTerm:   ex.SourceTerm,
				SourceSuffix: ex.SourceSuffix,
				TargetPrefix: ex.TargetPrefix,
				TargetTerm:   ex.TargetTerm,
				TargetSuffix: ex.TargetSuffix,
			})
		}
	}

	return sets, nil
}

// Translate translates a phrase without dictionary ranking or examples.
func (p *Provider) Translate(ctx context.Context, phrase, from, to string) (*provider.BulkTranslate, error) {
	body, err := p.post(ctx, "/translate", from, to, []map[string]string{{"text": phrase}})
	if err != nil {
		return nil, err
	}

	var entries []translateEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &provider.ParseError{Provider: "microsoft", Reason: "decode translate", Err: err}
	}

	result := &provider.BulkTranslate{Translations: []provider.TranslatedText{}}
	if len(entries) == 0 {
		return result, nil
	}
	for _, tr := range entries[0].Translations {
		result.Translations = append(result.Translations, provider.TranslatedText{Text: tr.Text})
	}

	p.log.DebugContext(ctx, "translate",
		slog.String("phrase", phrase),
		slog.Int("translations", len(result.Translations)),
	)

	return result, nil
}

// post executes one Translator API call and returns the raw body.
// API-level errors are mapped here so all three endpoints share the
// unsupported-pair handling.
func (p *Provider) post(ctx context.Context, path, from, to string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("microsoft: marshal request: %w", err)
	}

	params := url.Values{}
	params.Set("api-version", "3.0")
	params.Set("from", from)
	params.Set("to", to)
	reqURL := p.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("microsoft: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", p.region)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ClientTraceId", uuid.NewString())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "request failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, &provider.TransportError{Provider: "microsoft", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransportError{Provider: "microsoft", Err: err}
	}

	// The API reports unsupported pairs through the error envelope, not
	// through a dedicated status code.
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Code != 0 {
		if apiErr.Error.Code == codeUnsupportedPair {
			return nil, provider.ErrUnsupportedPair
		}
		return nil, &provider.TransportError{
			Provider: "microsoft",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("api error %d: %s", apiErr.Error.Code, apiErr.Error.Message),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.TransportError{Provider: "microsoft", Status: resp.StatusCode}
	}

	return body, nil
}
