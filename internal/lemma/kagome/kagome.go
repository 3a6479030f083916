// Package kagome implements a Japanese lemmatizer on top of the kagome
// morphological analyzer with the IPA dictionary.
package kagome

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// baseFormFeature is the index of the dictionary form in kagome's IPA
// feature list.
const baseFormFeature = 6

// Lemmatizer analyzes Japanese text into surface tokens and base forms.
type Lemmatizer struct {
	t *tokenizer.Tokenizer
}

// New creates a Lemmatizer. Loading the IPA dictionary is expensive, so
// callers should construct one instance and reuse it.
func New() (*Lemmatizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome: init tokenizer: %w", err)
	}
	return &Lemmatizer{t: t}, nil
}

// Lemmatize splits text into morphemes. The lemma of each token is its
// dictionary form when the analyzer knows it, otherwise the surface.
func (l *Lemmatizer) Lemmatize(text string) ([]string, []string, error) {
	analyzed := l.t.Tokenize(text)

	tokens := []string{}
	lemmas := []string{}
	for _, tok := range analyzed {
		if tok.Class == tokenizer.DUMMY {
			continue
		}

		base := tok.Surface
		if features := tok.Features(); len(features) > baseFormFeature && features[baseFormFeature] != "*" {
			base = features[baseFormFeature]
		}

		tokens = append(tokens, tok.Surface)
		lemmas = append(lemmas, base)
	}

	return tokens, lemmas, nil
}
