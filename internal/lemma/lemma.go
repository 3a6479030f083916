// Package lemma defines the pluggable lemmatizer used by practice text
// processing, plus the registry that picks an implementation per
// language.
package lemma

import "strings"

// Separator joins tokens and lemmas when a processed text is persisted.
// The two joined strings stay positionally aligned: token i corresponds
// to lemma i.
const Separator = "_$_"

// Lemmatizer splits a text into surface tokens and their dictionary
// forms. Both slices have the same length and order.
type Lemmatizer interface {
	Lemmatize(text string) (tokens []string, lemmas []string, err error)
}

// Join renders a token or lemma slice into its persisted form.
func Join(parts []string) string {
	return strings.Join(parts, Separator)
}

// Split is the inverse of Join.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, Separator)
}

// Registry selects a Lemmatizer by language code. Languages without a
// registered analyzer fall back to the default.
type Registry struct {
	byCode   map[string]Lemmatizer
	fallback Lemmatizer
}

// NewRegistry creates a Registry with the given fallback.
func NewRegistry(fallback Lemmatizer) *Registry {
	return &Registry{
		byCode:   make(map[string]Lemmatizer),
		fallback: fallback,
	}
}

// Register binds a language code to a Lemmatizer.
func (r *Registry) Register(code string, l Lemmatizer) {
	r.byCode[code] = l
}

// ForLanguage returns the Lemmatizer for a language code, or the
// fallback when none is registered.
func (r *Registry) ForLanguage(code string) Lemmatizer {
	if l, ok := r.byCode[code]; ok {
		return l
	}
	return r.fallback
}
