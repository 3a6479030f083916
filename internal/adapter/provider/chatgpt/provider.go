// Package chatgpt adapts an OpenAI-compatible chat completions API as a
// generative translation provider. The model is prompted for a strict
// JSON object; anything else is a parse failure, never a partial result.
package chatgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/neotexto/neotexto-backend/internal/provider"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
	maxTokens      = 2048
)

// Provider calls an OpenAI-compatible chat completions endpoint.
type Provider struct {
	baseURL      string
	apiKey       string
	organization string
	model        string
	httpClient   *http.Client
	log          *slog.Logger
}

// NewProvider creates a Provider against the public OpenAI API. An
// empty model selects the default.
func NewProvider(apiKey, organization, model string, logger *slog.Logger) *Provider {
	if model == "" {
		model = defaultModel
	}
	return NewProviderWithURL(defaultBaseURL, apiKey, organization, model, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL and model
// (for testing or self-hosted compatible endpoints).
func NewProviderWithURL(baseURL, apiKey, organization, model string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:      baseURL,
		apiKey:       apiKey,
		organization: organization,
		model:        model,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		log:          logger.With("adapter", "chatgpt"),
	}
}

// LookupWord asks the model for up to three translations of word, each
// with a paired example sentence. Entries keep the order the model
// produced them in, so the first entry is the primary sense.
func (p *Provider) LookupWord(ctx context.Context, word, languageFrom, languageTo string) ([]provider.GenerativeEntry, error) {
	prompt := buildTranslationPrompt(word, languageFrom, languageTo)

	answer, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(answer)
	if err != nil {
		return nil, &provider.ParseError{Provider: "chatgpt", Reason: "no JSON object in response", Err: err}
	}
	if !json.Valid([]byte(jsonStr)) {
		return nil, &provider.ParseError{Provider: "chatgpt", Reason: "response is not valid JSON"}
	}

	entries, err := parseEntries(jsonStr)
	if err != nil {
		return nil, err
	}

	p.log.DebugContext(ctx, "lookup response",
		slog.String("word", word),
		slog.Int("entries", len(entries)),
	)

	return entries, nil
}

// Complete sends a single system-role prompt and returns the raw
// completion text.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	raw, err := json.Marshal(chatRequest{
		Model:     p.model,
		Messages:  []chatMessage{{Role: "system", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chatgpt: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("chatgpt: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if p.organization != "" {
		req.Header.Set("OpenAI-Organization", p.organization)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "completion failed", slog.String("error", err.Error()))
		return "", &provider.TransportError{Provider: "chatgpt", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.TransportError{Provider: "chatgpt", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &provider.TransportError{Provider: "chatgpt", Status: resp.StatusCode}
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &provider.ParseError{Provider: "chatgpt", Reason: "decode completion", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &provider.ParseError{Provider: "chatgpt", Reason: "no choices in completion"}
	}

	return decoded.Choices[0].Message.Content, nil
}

// buildTranslationPrompt renders the strict-JSON translation prompt.
// The object keys are the translations, each value pairs an example in
// both languages.
func buildTranslationPrompt(word, languageFrom, languageTo string) string {
	return fmt.Sprintf(`Translate the %s word [[%s]] in %s.
There can be several translations but a maximum of 3. Each translation should have an example.
Your output must consist only of a JSON object where each key is a translation in %s without any article,
and each value is a dictionnary with inside a key "source" and a value that is an example in %s,
and a key "target" and a value that is an example in %s.`,
		languageFrom, word, languageTo, languageTo, languageFrom, languageTo)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// parseEntries decodes the model's JSON object while preserving key
// order. encoding/json maps are unordered, so the object is walked with
// a token decoder instead.
func parseEntries(jsonStr string) ([]provider.GenerativeEntry, error) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))

	tok, err := dec.Token()
	if err != nil {
		return nil, &provider.ParseError{Provider: "chatgpt", Reason: "decode object", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &provider.ParseError{Provider: "chatgpt", Reason: "response is not a JSON object"}
	}

	entries := []provider.GenerativeEntry{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &provider.ParseError{Provider: "chatgpt", Reason: "decode object key", Err: err}
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &provider.ParseError{Provider: "chatgpt", Reason: "object key is not a string"}
		}

		var pair examplePair
		if err := dec.Decode(&pair); err != nil {
			return nil, &provider.ParseError{
				Provider: "chatgpt",
				Reason:   fmt.Sprintf("entry %q is not an example pair", key),
				Err:      err,
			}
		}

		entry := provider.GenerativeEntry{Target: key}
		if pair.Source != "" || pair.Target != "" {
			entry.Example = &provider.GenerativePair{Source: pair.Source, Target: pair.Target}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
