package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLanguage creates a language row with a unique name/code pair.
func SeedLanguage(t *testing.T, pool *pgxpool.Pool, name, code string) domain.Language {
	t.Helper()
	ctx := context.Background()

	lang := domain.Language{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO languages (id, name, code, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name, code) DO NOTHING`,
		lang.ID, lang.Name, lang.Code, lang.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLanguage insert: %v", err)
	}

	var id uuid.UUID
	err = pool.QueryRow(ctx,
		`SELECT id FROM languages WHERE name = $1 AND code = $2`, name, code,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedLanguage select: %v", err)
	}
	lang.ID = id

	return lang
}

// SeedUser creates a user with the given credit balance.
func SeedUser(t *testing.T, pool *pgxpool.Pool, credit int) domain.CreditAccount {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.CreditAccount{
		UserID:    uuid.New(),
		Balance:   credit,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, credit, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		account.UserID, account.Balance, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return account
}

// SeedWord creates a word in the given language.
func SeedWord(t *testing.T, pool *pgxpool.Pool, lang domain.Language, text string) domain.Word {
	t.Helper()
	ctx := context.Background()

	word := domain.Word{
		ID:         uuid.New(),
		LanguageID: lang.ID,
		Text:       text,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		Language:   lang,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO words (id, language_id, text, created_at)
		 VALUES ($1, $2, $3, $4)`,
		word.ID, word.LanguageID, word.Text, word.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord insert: %v", err)
	}

	return word
}

// SeedTranslation creates a translation row linking two existing words.
func SeedTranslation(t *testing.T, pool *pgxpool.Pool, source, target domain.Word, prov domain.Provider) domain.Translation {
	t.Helper()
	ctx := context.Background()

	tr := domain.Translation{
		ID:           uuid.New(),
		WordSourceID: source.ID,
		WordTargetID: target.ID,
		Provider:     prov,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		WordSource:   source,
		WordTarget:   target,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO translations (id, word_source_id, word_target_id, provider, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tr.ID, tr.WordSourceID, tr.WordTargetID, string(tr.Provider), tr.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTranslation insert: %v", err)
	}

	return tr
}
