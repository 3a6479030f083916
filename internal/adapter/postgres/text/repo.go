// Package text implements the practice text repository using PostgreSQL.
package text

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides practice text persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new practice text repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO practice_texts (id, user_id, language_id, subject, body, lemmas, generation_done)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`

const completeSQL = `
UPDATE practice_texts
SET body = $2, lemmas = $3, generation_done = TRUE, updated_at = now()
WHERE id = $1`

const getByIDSQL = `
SELECT id, user_id, language_id, subject, body, lemmas, generation_done, created_at, updated_at
FROM practice_texts
WHERE id = $1`

const listByUserSQL = `
SELECT id, user_id, language_id, subject, body, lemmas, generation_done, created_at, updated_at
FROM practice_texts
WHERE user_id = $1
ORDER BY created_at DESC`

const deleteSQL = `
DELETE FROM practice_texts WHERE id = $1 AND user_id = $2`

// Create inserts a practice text row. Generated texts start as a
// placeholder with GenerationDone=false; imported texts arrive complete.
func (r *Repo) Create(ctx context.Context, txt *domain.PracticeText) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	err := querier.QueryRow(ctx, insertSQL,
		txt.ID, txt.UserID, txt.LanguageID, txt.Subject, txt.Body, txt.Lemmas, txt.GenerationDone,
	).Scan(&txt.CreatedAt, &txt.UpdatedAt)
	if err != nil {
		return postgres.MapError(err, "practice_text", txt.ID)
	}

	return nil
}

// Complete stores the generated body and lemmas and flips the done flag.
func (r *Repo) Complete(ctx context.Context, id uuid.UUID, body, lemmas string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, completeSQL, id, body, lemmas)
	if err != nil {
		return postgres.MapError(err, "practice_text", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("practice_text %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// GetByID returns a practice text. Callers poll this for the done flag.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeText, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	txt, err := scanText(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "practice_text", id)
	}

	return &txt, nil
}

// ListByUser returns a user's practice texts, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PracticeText, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list practice texts: %w", err)
	}
	defer rows.Close()

	var texts []domain.PracticeText
	for rows.Next() {
		txt, err := scanText(rows)
		if err != nil {
			return nil, fmt.Errorf("list practice texts: %w", err)
		}
		texts = append(texts, txt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list practice texts: %w", err)
	}

	if texts == nil {
		texts = []domain.PracticeText{}
	}

	return texts, nil
}

// Delete removes a user's practice text.
func (r *Repo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id, userID)
	if err != nil {
		return postgres.MapError(err, "practice_text", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("practice_text %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanText(row pgx.Row) (domain.PracticeText, error) {
	var txt domain.PracticeText
	err := row.Scan(
		&txt.ID, &txt.UserID, &txt.LanguageID, &txt.Subject,
		&txt.Body, &txt.Lemmas, &txt.GenerationDone,
		&txt.CreatedAt, &txt.UpdatedAt,
	)
	if err != nil {
		return domain.PracticeText{}, err
	}
	return txt, nil
}
