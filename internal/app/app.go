package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/account"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/example"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/language"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/text"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/translation"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/uservocab"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/word"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/chatgpt"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/microsoft"
	"github.com/neotexto/neotexto-backend/internal/adapter/provider/yandex"
	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/lemma"
	"github.com/neotexto/neotexto-backend/internal/lemma/kagome"
	"github.com/neotexto/neotexto-backend/internal/lemma/naive"
	"github.com/neotexto/neotexto-backend/internal/service/games"
	"github.com/neotexto/neotexto-backend/internal/service/texts"
	"github.com/neotexto/neotexto-backend/internal/service/translator"
	"github.com/neotexto/neotexto-backend/internal/transport/middleware"
	"github.com/neotexto/neotexto-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, providers and services, and serves
// HTTP until ctx is cancelled. On shutdown it drains in-flight requests
// and waits for detached text generation tasks to finish.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	languageRepo := language.New(pool)
	wordRepo := word.New(pool)
	translationRepo := translation.New(pool)
	exampleRepo := example.New(pool)
	accountRepo := account.New(pool)
	textRepo := text.New(pool)
	vocabRepo := uservocab.New(pool)

	microsoftProvider := microsoft.NewProvider(cfg.Providers.Microsoft.APIKey, cfg.Providers.Microsoft.Region, logger)
	yandexProvider := yandex.NewProvider(cfg.Providers.Yandex.APIKey, logger)
	chatgptProvider := chatgpt.NewProvider(
		cfg.Providers.OpenAI.APIKey,
		cfg.Providers.OpenAI.Organization,
		cfg.Providers.OpenAI.Model,
		logger,
	)

	lemmas, err := newLemmaRegistry(logger)
	if err != nil {
		return fmt.Errorf("init lemmatizers: %w", err)
	}

	translatorSvc := translator.NewService(
		logger,
		languageRepo,
		wordRepo,
		translationRepo,
		exampleRepo,
		accountRepo,
		vocabRepo,
		txm,
		microsoftProvider,
		yandexProvider,
		chatgptProvider,
		cfg.Credits,
	)

	gamesSvc := games.NewService(
		logger,
		translationRepo,
		languageRepo,
		accountRepo,
		chatgptProvider,
		cfg.Credits,
	)

	textsSvc := texts.NewService(
		logger,
		textRepo,
		accountRepo,
		vocabRepo,
		languageRepo,
		chatgptProvider,
		lemmas,
		cfg.Credits,
		cfg.Generator,
	)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Translate:   rest.NewTranslateHandler(translatorSvc, logger),
		Texts:       rest.NewTextsHandler(textsSvc, logger),
		Languages:   rest.NewLanguagesHandler(languageRepo, logger),
		Account:     rest.NewAccountHandler(accountRepo, logger),
		Games:       rest.NewGamesHandler(gamesSvc, logger),
		RateLimiter: rateLimiter,
		Logger:      logger,
		CORS:        cfg.CORS,
		RateLimit:   cfg.Server.RateLimitPerMin,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if sErr := server.Shutdown(shutdownCtx); sErr != nil {
			logger.Error("server shutdown failed", slog.String("error", sErr.Error()))
		}
	}()

	logger.Info("http server listening", slog.String("address", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	// Detached generation tasks outlive their originating requests; give
	// them a chance to complete before the process exits.
	textsSvc.Wait()

	logger.Info("application stopped")

	return nil
}

// newLemmaRegistry builds the lemmatizer registry: a whitespace splitter
// as the fallback and a morphological analyzer for Japanese, which has
// no word boundaries to split on.
func newLemmaRegistry(logger *slog.Logger) (*lemma.Registry, error) {
	registry := lemma.NewRegistry(naive.New())

	japanese, err := kagome.New()
	if err != nil {
		return nil, err
	}
	registry.Register("ja", japanese)

	logger.Info("lemmatizers ready", slog.Int("languages", 1))

	return registry, nil
}
