// Package texts implements practice text generation and import: a
// credit-gated generative call that runs detached from the triggering
// request, and a free import path for pasted or OCR'd text.
package texts

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/lemma"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type textRepo interface {
	Create(ctx context.Context, txt *domain.PracticeText) error
	Complete(ctx context.Context, id uuid.UUID, body, lemmas string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeText, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PracticeText, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type accountRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)
	DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount int) (int, error)
}

type vocabRepo interface {
	RecentSourceWords(ctx context.Context, userID, languageID uuid.UUID, limit int) ([]string, error)
}

type languageRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error)
}

type generativeProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements practice text business logic.
type Service struct {
	log       *slog.Logger
	texts     textRepo
	accounts  accountRepo
	vocab     vocabRepo
	languages languageRepo
	generator generativeProvider
	lemmas    *lemma.Registry
	credits   config.CreditsConfig
	cfg       config.GeneratorConfig

	// wg tracks detached generation tasks so shutdown (and tests) can
	// wait for them.
	wg sync.WaitGroup
}

// NewService creates a new texts Service.
func NewService(
	logger *slog.Logger,
	texts textRepo,
	accounts accountRepo,
	vocab vocabRepo,
	languages languageRepo,
	generator generativeProvider,
	lemmas *lemma.Registry,
	credits config.CreditsConfig,
	cfg config.GeneratorConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "texts"),
		texts:     texts,
		accounts:  accounts,
		vocab:     vocab,
		languages: languages,
		generator: generator,
		lemmas:    lemmas,
		credits:   credits,
		cfg:       cfg,
	}
}

// Wait blocks until all in-flight generation tasks have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}
