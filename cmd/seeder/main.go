// Command seeder populates the language reference table and optionally
// opens a credit account for a user. It is intended to be run offline,
// not as part of the main server.
//
// Flags:
//
//	--grant  user UUID to open a credit account for, with the configured
//	         initial balance
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/account"
	"github.com/neotexto/neotexto-backend/internal/adapter/postgres/language"
	"github.com/neotexto/neotexto-backend/internal/app"
	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// seedLanguages is the closed set of languages the translation providers
// are known to handle well.
var seedLanguages = []domain.Language{
	{Name: "English", Code: "en"},
	{Name: "Spanish", Code: "es"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Italian", Code: "it"},
	{Name: "Portuguese", Code: "pt"},
	{Name: "Dutch", Code: "nl"},
	{Name: "Russian", Code: "ru"},
	{Name: "Polish", Code: "pl"},
	{Name: "Ukrainian", Code: "uk"},
	{Name: "Chinese", Code: "zh"},
	{Name: "Japanese", Code: "ja"},
	{Name: "Korean", Code: "ko"},
	{Name: "Arabic", Code: "ar"},
	{Name: "Turkish", Code: "tr"},
}

func main() {
	grantFlag := flag.String("grant", "", "user UUID to open a credit account for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	languageRepo := language.New(pool)

	created := 0
	for _, lang := range seedLanguages {
		lang.ID = uuid.New()
		isNew, err := languageRepo.Upsert(ctx, lang)
		if err != nil {
			logger.Error("seed language failed",
				slog.String("code", lang.Code),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		if isNew {
			created++
		}
	}

	logger.Info("languages seeded",
		slog.Int("total", len(seedLanguages)),
		slog.Int("created", created),
	)

	if *grantFlag != "" {
		userID, err := uuid.Parse(*grantFlag)
		if err != nil {
			logger.Error("invalid --grant user id", slog.String("error", err.Error()))
			os.Exit(1)
		}

		accountRepo := account.New(pool)
		if err := accountRepo.Create(ctx, userID, cfg.Credits.InitialBalance); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				logger.Info("credit account already exists", slog.String("user_id", userID.String()))
				return
			}
			logger.Error("create credit account failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("credit account created",
			slog.String("user_id", userID.String()),
			slog.Int("balance", cfg.Credits.InitialBalance),
		)
	}
}
