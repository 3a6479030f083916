// Package language implements the Language repository using PostgreSQL.
// Languages are immutable reference data: the translation flow only reads
// them, and rows are created by the offline seeder.
package language

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides language persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new language repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listSQL = `
SELECT id, name, code, created_at
FROM languages
ORDER BY name, code`

const getByIDSQL = `
SELECT id, name, code, created_at
FROM languages
WHERE id = $1`

const getByCodeSQL = `
SELECT id, name, code, created_at
FROM languages
WHERE code = $1
ORDER BY name
LIMIT 1`

const upsertSQL = `
INSERT INTO languages (id, name, code)
VALUES ($1, $2, $3)
ON CONFLICT (name, code) DO NOTHING`

// List returns all languages ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Language, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	languages, err := scanLanguages(rows)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	return languages, nil
}

// GetByID returns a single language.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Language, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var lang domain.Language
	err := querier.QueryRow(ctx, getByIDSQL, id).
		Scan(&lang.ID, &lang.Name, &lang.Code, &lang.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "language", id)
	}

	return &lang, nil
}

// GetByCode returns the first language with the given code.
// OCR output references languages by code only.
func (r *Repo) GetByCode(ctx context.Context, code string) (*domain.Language, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var lang domain.Language
	err := querier.QueryRow(ctx, getByCodeSQL, code).
		Scan(&lang.ID, &lang.Name, &lang.Code, &lang.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "language", uuid.Nil)
	}

	return &lang, nil
}

// Upsert inserts a language, skipping pairs that already exist.
// Used by the seeder only. Returns true if a row was inserted.
func (r *Repo) Upsert(ctx context.Context, lang domain.Language) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, upsertSQL, lang.ID, lang.Name, lang.Code)
	if err != nil {
		return false, postgres.MapError(err, "language", lang.ID)
	}

	return tag.RowsAffected() > 0, nil
}

func scanLanguages(rows pgx.Rows) ([]domain.Language, error) {
	var languages []domain.Language
	for rows.Next() {
		var lang domain.Language
		if err := rows.Scan(&lang.ID, &lang.Name, &lang.Code, &lang.CreatedAt); err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if languages == nil {
		languages = []domain.Language{}
	}

	return languages, nil
}
