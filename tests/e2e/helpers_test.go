//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/account"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/example"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/language"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/testhelper"
	textrepo "github.com/neotexto/neotexto-backend/internal/adapter/postgres/text"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/translation"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/uservocab"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/word"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/chatgpt"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/microsoft"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/yandex"
	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/lemma"
	"github.com/neotexto/neotexto-backend/internal/lemma/naive"
	"github.com/neotexto/neotexto-backend/internal/service/games"
	"github.com/neotexto/neotexto-backend/internal/service/texts"
	"github.com/neotexto/neotexto-backend/internal/service/translator"
	"github.com/neotexto/neotexto-backend/internal/transport/middleware"
	"github.com/neotexto/neotexto-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// Fake provider backends.
// ---------------------------------------------------------------------------

// providerBackends holds the HTTP handlers standing in for the external
// translation APIs. A nil handler means the test does not expect that
// provider to be called.
type providerBackends struct {
	microsoft http.HandlerFunc
	yandex    http.HandlerFunc
	openai    http.HandlerFunc
}

func mustNotBeCalled(t *testing.T, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call to %s backend: %s %s", name, r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// openaiCompletion wraps content in the chat completions response shape.
func openaiCompletion(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}); err != nil {
			t.Errorf("encode openai response: %v", err)
		}
	}
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL      string
	Client   *http.Client
	Pool     *pgxpool.Pool
	TextsSvc *texts.Service
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper), with the external
// provider APIs replaced by in-process fakes.
func setupTestServer(t *testing.T, backends providerBackends) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	if backends.microsoft == nil {
		backends.microsoft = mustNotBeCalled(t, "microsoft")
	}
	if backends.yandex == nil {
		backends.yandex = mustNotBeCalled(t, "yandex")
	}
	if backends.openai == nil {
		backends.openai = mustNotBeCalled(t, "openai")
	}

	microsoftSrv := httptest.NewServer(backends.microsoft)
	t.Cleanup(microsoftSrv.Close)
	yandexSrv := httptest.NewServer(backends.yandex)
	t.Cleanup(yandexSrv.Close)
	openaiSrv := httptest.NewServer(backends.openai)
	t.Cleanup(openaiSrv.Close)

	languageRepo := language.New(pool)
	wordRepo := word.New(pool)
	translationRepo := translation.New(pool)
	exampleRepo := example.New(pool)
	accountRepo := account.New(pool)
	textRepo := textrepo.New(pool)
	vocabRepo := uservocab.New(pool)

	credits := config.CreditsConfig{TranslationCost: 1, TextCost: 5, InitialBalance: 100}

	translatorSvc := translator.NewService(
		logger,
		languageRepo, wordRepo, translationRepo, exampleRepo, accountRepo, vocabRepo, txm,
		microsoft.NewProviderWithURL(microsoftSrv.URL, "test-key", "test-region", logger),
		yandex.NewProviderWithURL(yandexSrv.URL, "test-key", logger),
		chatgpt.NewProviderWithURL(openaiSrv.URL, "test-key", "", "test-model", logger),
		credits,
	)

	gamesSvc := games.NewService(
		logger,
		translationRepo, languageRepo, accountRepo,
		chatgpt.NewProviderWithURL(openaiSrv.URL, "test-key", "", "test-model", logger),
		credits,
	)

	textsSvc := texts.NewService(
		logger,
		textRepo, accountRepo, vocabRepo, languageRepo,
		chatgpt.NewProviderWithURL(openaiSrv.URL, "test-key", "", "test-model", logger),
		lemma.NewRegistry(naive.New()),
		credits,
		config.GeneratorConfig{VocabularyLimit: 20},
	)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rateLimiter.Stop)

	router := rest.NewRouter(rest.RouterDeps{
		Health:      rest.NewHealthHandler(pool, "test-version"),
		Translate:   rest.NewTranslateHandler(translatorSvc, logger),
		Texts:       rest.NewTextsHandler(textsSvc, logger),
		Languages:   rest.NewLanguagesHandler(languageRepo, logger),
		Account:     rest.NewAccountHandler(accountRepo, logger),
		Games:       rest.NewGamesHandler(gamesSvc, logger),
		RateLimiter: rateLimiter,
		Logger:      logger,
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type,X-User-ID",
			AllowCredentials: true,
			MaxAge:           86400,
		},
		RateLimit: 10000,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:      srv.URL,
		Client:   srv.Client(),
		Pool:     pool,
		TextsSvc: textsSvc,
	}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// doJSON sends a request as the given user and returns status + raw body.
func (ts *testServer) doJSON(t *testing.T, method, path string, userID uuid.UUID, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	return resp.StatusCode, raw
}

func decodeInto(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
}
