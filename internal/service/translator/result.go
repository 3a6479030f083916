package translator

import "github.com/neotexto/neotexto-backend/internal/domain"

// TranslateResult groups each persisted translation with its examples
// and tags the query word with its resolved source language.
type TranslateResult struct {
	QueryWord    domain.Word
	Translations []TranslationEntry
	FromCache    bool
}

// TranslationEntry is one translation with its usage examples, in
// provider confidence order.
type TranslationEntry struct {
	Translation domain.Translation
	Examples    []domain.Example
}

// Empty reports whether the dispatch produced no translations, which is
// a valid outcome (unknown word or unsupported pair), not an error.
func (r *TranslateResult) Empty() bool {
	return len(r.Translations) == 0
}
