package domain

import (
	"time"

	"github.com/google/uuid"
)

// Word is a deduplicated (language, text) pair. Created lazily on first
// sight, never updated.
type Word struct {
	ID         uuid.UUID
	LanguageID uuid.UUID
	Text       string
	CreatedAt  time.Time

	Language Language
}

// Translation links a source word to one target-language rendering of it.
// Unique on (word_source_id, word_target_id, provider); this triple is the
// cache key for the whole dispatch flow. Rows are created once and then
// only read — examples are appended after creation.
type Translation struct {
	ID           uuid.UUID
	WordSourceID uuid.UUID
	WordTargetID uuid.UUID
	Provider     Provider
	CreatedAt    time.Time

	WordSource Word
	WordTarget Word
}

// Example is one usage-in-context snippet for a translation: the source
// term embedded in a sentence fragment and its aligned target fragment.
// Append-only; duplicates are acceptable.
type Example struct {
	ID            uuid.UUID
	TranslationID uuid.UUID
	SourcePrefix  string
	SourceTerm    string
	SourceSuffix  string
	TargetPrefix  string
	TargetTerm    string
	TargetSuffix  string
	Position      int
	CreatedAt     time.Time
}
