// Package word implements the Word repository using PostgreSQL.
package word

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO words (id, language_id, text)
VALUES ($1, $2, $3)
ON CONFLICT (language_id, text) DO NOTHING`

const getByKeySQL = `
SELECT w.id, w.language_id, w.text, w.created_at,
       l.id, l.name, l.code, l.created_at
FROM words w
JOIN languages l ON l.id = w.language_id
WHERE w.language_id = $1 AND w.text = $2`

const getByIDSQL = `
SELECT w.id, w.language_id, w.text, w.created_at,
       l.id, l.name, l.code, l.created_at
FROM words w
JOIN languages l ON l.id = w.language_id
WHERE w.id = $1`

// GetOrCreate performs an upsert: INSERT ON CONFLICT DO NOTHING, then SELECT.
// Concurrent callers with the same (language, text) pair all succeed and
// return the same row; the unique constraint is the source of truth.
// The second return value reports whether this call inserted the row.
func (r *Repo) GetOrCreate(ctx context.Context, languageID uuid.UUID, text string) (domain.Word, bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	tag, err := querier.Exec(ctx, insertSQL, id, languageID, text)
	if err != nil {
		return domain.Word{}, false, postgres.MapError(err, "word", id)
	}
	created := tag.RowsAffected() > 0

	// Always select to get the definitive row (new or existing).
	word, err := r.getByKey(ctx, languageID, text)
	if err != nil {
		return domain.Word{}, false, err
	}

	return word, created, nil
}

// GetByID returns a word with its language joined.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var w domain.Word
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&w.ID, &w.LanguageID, &w.Text, &w.CreatedAt,
		&w.Language.ID, &w.Language.Name, &w.Language.Code, &w.Language.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "word", id)
	}

	return &w, nil
}

func (r *Repo) getByKey(ctx context.Context, languageID uuid.UUID, text string) (domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var w domain.Word
	err := querier.QueryRow(ctx, getByKeySQL, languageID, text).Scan(
		&w.ID, &w.LanguageID, &w.Text, &w.CreatedAt,
		&w.Language.ID, &w.Language.Name, &w.Language.Code, &w.Language.CreatedAt,
	)
	if err != nil {
		return domain.Word{}, postgres.MapError(err, "word", uuid.Nil)
	}

	return w, nil
}
