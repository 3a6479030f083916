// Package translator implements the credit-gated translation dispatcher:
// cache lookup, provider dispatch, result normalization into the
// word/translation/example graph, and the post-success debit.
package translator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type languageRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error)
}

type wordRepo interface {
	GetOrCreate(ctx context.Context, languageID uuid.UUID, text string) (domain.Word, bool, error)
}

type translationRepo interface {
	GetOrCreate(ctx context.Context, sourceWordID, targetWordID uuid.UUID, prov domain.Provider) (domain.Translation, bool, error)
	FindCached(ctx context.Context, sourceText string, sourceLanguageID, targetLanguageID uuid.UUID, prov domain.Provider) ([]domain.Translation, error)
}

type exampleRepo interface {
	CreateBatch(ctx context.Context, translationID uuid.UUID, examples []domain.Example) ([]domain.Example, error)
	ListByTranslationIDs(ctx context.Context, translationIDs []uuid.UUID) (map[uuid.UUID][]domain.Example, error)
}

type accountRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)
	DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount int) (int, error)
}

type vocabRepo interface {
	Record(ctx context.Context, userID, translationID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type dictionaryProvider interface {
	LookupDictionary(ctx context.Context, word, from, to string) (*provider.DictionaryLookup, error)
	LookupExamples(ctx context.Context, pairs []provider.ExamplePair, from, to string) ([]provider.ExampleSet, error)
	Translate(ctx context.Context, phrase, from, to string) (*provider.BulkTranslate, error)
}

type inlineDictionaryProvider interface {
	Lookup(ctx context.Context, word, from, to string) (*provider.DictionaryLookup, error)
}

type generativeProvider interface {
	LookupWord(ctx context.Context, word, languageFrom, languageTo string) ([]provider.GenerativeEntry, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the translation dispatch flow.
type Service struct {
	log          *slog.Logger
	languages    languageRepo
	words        wordRepo
	translations translationRepo
	examples     exampleRepo
	accounts     accountRepo
	vocab        vocabRepo
	tx           txManager
	microsoft    dictionaryProvider
	yandex       inlineDictionaryProvider
	chatgpt      generativeProvider
	cfg          config.CreditsConfig

	// flights collapses concurrent misses on the same cache key so only
	// one caller pays for the provider round trip.
	flights singleflight.Group
}

// NewService creates a new translator Service.
func NewService(
	logger *slog.Logger,
	languages languageRepo,
	words wordRepo,
	translations translationRepo,
	examples exampleRepo,
	accounts accountRepo,
	vocab vocabRepo,
	tx txManager,
	microsoft dictionaryProvider,
	yandex inlineDictionaryProvider,
	chatgpt generativeProvider,
	cfg config.CreditsConfig,
) *Service {
	return &Service{
		log:          logger.With("service", "translator"),
		languages:    languages,
		words:        words,
		translations: translations,
		examples:     examples,
		accounts:     accounts,
		vocab:        vocab,
		tx:           tx,
		microsoft:    microsoft,
		yandex:       yandex,
		chatgpt:      chatgpt,
		cfg:          cfg,
	}
}
