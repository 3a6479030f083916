// Package uservocab implements the per-user translation history used to
// bias practice text generation toward the user's vocabulary.
package uservocab

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
)

// Repo provides user vocabulary history backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user vocabulary repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordSQL = `
INSERT INTO user_translations (user_id, translation_id)
VALUES ($1, $2)
ON CONFLICT (user_id, translation_id) DO NOTHING`

const recentSourceWordsSQL = `
SELECT text FROM (
    SELECT DISTINCT ON (w.text) w.text AS text, ut.created_at AS recorded_at
    FROM user_translations ut
    JOIN translations t ON t.id = ut.translation_id
    JOIN words w ON w.id = t.word_source_id
    WHERE ut.user_id = $1 AND w.language_id = $2
    ORDER BY w.text, ut.created_at DESC
) latest
ORDER BY recorded_at DESC
LIMIT $3`

// Record remembers that the user looked up this translation. Idempotent:
// recording the same pair twice is not an error.
func (r *Repo) Record(ctx context.Context, userID, translationID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, recordSQL, userID, translationID); err != nil {
		return postgres.MapError(err, "user_translation", translationID)
	}

	return nil
}

// RecentSourceWords returns up to limit distinct source word texts the
// user has translated from the given language, most recently recorded
// first.
func (r *Repo) RecentSourceWords(ctx context.Context, userID, languageID uuid.UUID, limit int) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, recentSourceWordsSQL, userID, languageID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent source words: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("recent source words: %w", err)
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent source words: %w", err)
	}

	if texts == nil {
		texts = []string{}
	}

	return texts, nil
}
