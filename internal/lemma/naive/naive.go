// Package naive implements a language-agnostic lemmatizer that splits
// on word boundaries and uses each token as its own lemma. It is the
// registry fallback for languages without a morphological analyzer.
package naive

import "regexp"

var boundary = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Lemmatizer splits text into alternating word and non-word runs.
type Lemmatizer struct{}

// New creates a naive Lemmatizer.
func New() *Lemmatizer {
	return &Lemmatizer{}
}

// Lemmatize splits text on non-word runs, keeping the runs themselves
// as tokens so the original text can be reassembled. Lemmas are the
// tokens unchanged.
func (l *Lemmatizer) Lemmatize(text string) ([]string, []string, error) {
	if text == "" {
		return []string{}, []string{}, nil
	}

	var tokens []string
	last := 0
	for _, span := range boundary.FindAllStringIndex(text, -1) {
		if span[0] > last {
			tokens = append(tokens, text[last:span[0]])
		}
		tokens = append(tokens, text[span[0]:span[1]])
		last = span[1]
	}
	if last < len(text) {
		tokens = append(tokens, text[last:])
	}

	lemmas := make([]string, len(tokens))
	copy(lemmas, tokens)

	return tokens, lemmas, nil
}
