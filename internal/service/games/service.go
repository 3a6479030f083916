// Package games implements the sentence game: the user writes a sentence
// using a word pair they translated earlier, and a generative model
// judges whether the usage is correct. The call is credit-gated with the
// debit taken only after the model answered.
package games

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type translationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Translation, error)
}

type languageRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error)
}

type accountRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)
	DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount int) (int, error)
}

type generativeProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the sentence game flow.
type Service struct {
	log          *slog.Logger
	translations translationRepo
	languages    languageRepo
	accounts     accountRepo
	judge        generativeProvider
	credits      config.CreditsConfig
}

// NewService creates a new games Service.
func NewService(
	logger *slog.Logger,
	translations translationRepo,
	languages languageRepo,
	accounts accountRepo,
	judge generativeProvider,
	credits config.CreditsConfig,
) *Service {
	return &Service{
		log:          logger.With("service", "games"),
		translations: translations,
		languages:    languages,
		accounts:     accounts,
		judge:        judge,
		credits:      credits,
	}
}
