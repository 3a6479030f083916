// Package translation implements the Translation repository using
// PostgreSQL. The (word_source, word_target, provider) unique constraint
// backs the get-or-create contract; the cache lookup joins both words and
// their languages so the dispatcher can assemble a result without extra
// round trips.
package translation

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides translation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new translation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const insertSQL = `
INSERT INTO translations (id, word_source_id, word_target_id, provider)
VALUES ($1, $2, $3, $4)
ON CONFLICT (word_source_id, word_target_id, provider) DO NOTHING`

const getByKeySQL = `
SELECT id, word_source_id, word_target_id, provider, created_at
FROM translations
WHERE word_source_id = $1 AND word_target_id = $2 AND provider = $3`

// translationColumns are the joined columns scanned by scanJoined, in order.
var translationColumns = []string{
	"t.id", "t.word_source_id", "t.word_target_id", "t.provider", "t.created_at",
	"ws.id", "ws.language_id", "ws.text", "ws.created_at",
	"ls.id", "ls.name", "ls.code", "ls.created_at",
	"wt.id", "wt.language_id", "wt.text", "wt.created_at",
	"lt.id", "lt.name", "lt.code", "lt.created_at",
}

// GetOrCreate performs an upsert: INSERT ON CONFLICT DO NOTHING, then SELECT.
// Concurrent callers translating the same word pair all succeed and observe
// a single row. The second return value reports whether this call created it.
func (r *Repo) GetOrCreate(ctx context.Context, sourceWordID, targetWordID uuid.UUID, prov domain.Provider) (domain.Translation, bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	tag, err := querier.Exec(ctx, insertSQL, id, sourceWordID, targetWordID, string(prov))
	if err != nil {
		return domain.Translation{}, false, postgres.MapError(err, "translation", id)
	}
	created := tag.RowsAffected() > 0

	var tr domain.Translation
	var provStr string
	err = querier.QueryRow(ctx, getByKeySQL, sourceWordID, targetWordID, string(prov)).
		Scan(&tr.ID, &tr.WordSourceID, &tr.WordTargetID, &provStr, &tr.CreatedAt)
	if err != nil {
		return domain.Translation{}, false, postgres.MapError(err, "translation", uuid.Nil)
	}
	tr.Provider = domain.Provider(provStr)

	return tr, created, nil
}

// FindCached returns all translations matching the dispatcher cache key
// (source word text, source language, target language, provider), with
// both words and their languages joined. Exact match only. Insertion
// order is preserved so the first row is the primary sense.
func (r *Repo) FindCached(ctx context.Context, sourceText string, sourceLanguageID, targetLanguageID uuid.UUID, prov domain.Provider) ([]domain.Translation, error) {
	query, args, err := psql.
		Select(translationColumns...).
		From("translations t").
		Join("words ws ON ws.id = t.word_source_id").
		Join("languages ls ON ls.id = ws.language_id").
		Join("words wt ON wt.id = t.word_target_id").
		Join("languages lt ON lt.id = wt.language_id").
		Where(sq.Eq{
			"ws.text":        sourceText,
			"ws.language_id": sourceLanguageID,
			"wt.language_id": targetLanguageID,
			"t.provider":     string(prov),
		}).
		OrderBy("t.seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cache query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find cached translations: %w", err)
	}
	defer rows.Close()

	translations, err := scanJoined(rows)
	if err != nil {
		return nil, fmt.Errorf("find cached translations: %w", err)
	}

	return translations, nil
}

// GetByID returns a single translation with words and languages joined.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Translation, error) {
	query, args, err := psql.
		Select(translationColumns...).
		From("translations t").
		Join("words ws ON ws.id = t.word_source_id").
		Join("languages ls ON ls.id = ws.language_id").
		Join("words wt ON wt.id = t.word_target_id").
		Join("languages lt ON lt.id = wt.language_id").
		Where(sq.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tr, err := scanJoinedRow(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "translation", id)
	}

	return &tr, nil
}

func scanJoined(rows pgx.Rows) ([]domain.Translation, error) {
	var translations []domain.Translation
	for rows.Next() {
		tr, err := scanJoinedRow(rows)
		if err != nil {
			return nil, err
		}
		translations = append(translations, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if translations == nil {
		translations = []domain.Translation{}
	}

	return translations, nil
}

func scanJoinedRow(row pgx.Row) (domain.Translation, error) {
	var tr domain.Translation
	var provStr string

	err := row.Scan(
		&tr.ID, &tr.WordSourceID, &tr.WordTargetID, &provStr, &tr.CreatedAt,
		&tr.WordSource.ID, &tr.WordSource.LanguageID, &tr.WordSource.Text, &tr.WordSource.CreatedAt,
		&tr.WordSource.Language.ID, &tr.WordSource.Language.Name, &tr.WordSource.Language.Code, &tr.WordSource.Language.CreatedAt,
		&tr.WordTarget.ID, &tr.WordTarget.LanguageID, &tr.WordTarget.Text, &tr.WordTarget.CreatedAt,
		&tr.WordTarget.Language.ID, &tr.WordTarget.Language.Name, &tr.WordTarget.Language.Code, &tr.WordTarget.Language.CreatedAt,
	)
	if err != nil {
		return domain.Translation{}, err
	}

	tr.Provider = domain.Provider(provStr)
	return tr, nil
}
