// Package example implements the Example repository using PostgreSQL.
// Examples are append-only: once attached to a translation they are never
// mutated, and duplicates are acceptable.
package example

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides example persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new example repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO examples (id, translation_id, source_prefix, source_term, source_suffix,
                      target_prefix, target_term, target_suffix, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const listByTranslationSQL = `
SELECT id, translation_id, source_prefix, source_term, source_suffix,
       target_prefix, target_term, target_suffix, position, created_at
FROM examples
WHERE translation_id = $1
ORDER BY position, created_at`

const listByTranslationsSQL = `
SELECT id, translation_id, source_prefix, source_term, source_suffix,
       target_prefix, target_term, target_suffix, position, created_at
FROM examples
WHERE translation_id = ANY($1::uuid[])
ORDER BY translation_id, position, created_at`

const countByTranslationSQL = `
SELECT count(*) FROM examples WHERE translation_id = $1`

// CreateBatch appends examples to a translation using pgx.Batch, preserving
// the given order via the position column. A nil or empty slice is a no-op.
func (r *Repo) CreateBatch(ctx context.Context, translationID uuid.UUID, examples []domain.Example) ([]domain.Example, error) {
	if len(examples) == 0 {
		return []domain.Example{}, nil
	}

	batch := &pgx.Batch{}
	created := make([]domain.Example, len(examples))
	for i, ex := range examples {
		ex.ID = uuid.New()
		ex.TranslationID = translationID
		ex.Position = i
		created[i] = ex

		batch.Queue(insertSQL,
			ex.ID, ex.TranslationID,
			ex.SourcePrefix, ex.SourceTerm, ex.SourceSuffix,
			ex.TargetPrefix, ex.TargetTerm, ex.TargetSuffix,
			ex.Position,
		)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range examples {
		if _, err := results.Exec(); err != nil {
			return nil, postgres.MapError(err, "example", translationID)
		}
	}

	return created, nil
}

// ListByTranslationID returns a translation's examples in creation order.
func (r *Repo) ListByTranslationID(ctx context.Context, translationID uuid.UUID) ([]domain.Example, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByTranslationSQL, translationID)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	defer rows.Close()

	examples, err := scanExamples(rows)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}

	return examples, nil
}

// ListByTranslationIDs returns examples for multiple translations, grouped
// by translation ID. Translations with no examples are absent from the map.
func (r *Repo) ListByTranslationIDs(ctx context.Context, translationIDs []uuid.UUID) (map[uuid.UUID][]domain.Example, error) {
	grouped := make(map[uuid.UUID][]domain.Example)
	if len(translationIDs) == 0 {
		return grouped, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByTranslationsSQL, translationIDs)
	if err != nil {
		return nil, fmt.Errorf("list examples by translation ids: %w", err)
	}
	defer rows.Close()

	examples, err := scanExamples(rows)
	if err != nil {
		return nil, fmt.Errorf("list examples by translation ids: %w", err)
	}

	for _, ex := range examples {
		grouped[ex.TranslationID] = append(grouped[ex.TranslationID], ex)
	}

	return grouped, nil
}

// CountByTranslation returns the number of examples attached to a translation.
func (r *Repo) CountByTranslation(ctx context.Context, translationID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countByTranslationSQL, translationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count examples: %w", err)
	}

	return count, nil
}

func scanExamples(rows pgx.Rows) ([]domain.Example, error) {
	var examples []domain.Example
	for rows.Next() {
		var ex domain.Example
		if err := rows.Scan(
			&ex.ID, &ex.TranslationID,
			&ex.SourcePrefix, &ex.SourceTerm, &ex.SourceSuffix,
			&ex.TargetPrefix, &ex.TargetTerm, &ex.TargetSuffix,
			&ex.Position, &ex.CreatedAt,
		); err != nil {
			return nil, err
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if examples == nil {
		examples = []domain.Example{}
	}

	return examples, nil
}
