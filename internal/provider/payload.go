// Package provider defines the normalized payload types shared between the
// external translation clients and the translator service, together with
// the error taxonomy for provider calls.
package provider

// DictionaryLookup is the structured result of a single-word dictionary
// query. Sense order is significant: index 0 is the highest-confidence
// sense, and the examples fetch is positionally aligned to this slice.
type DictionaryLookup struct {
	NormalizedSource string
	Senses           []DictionarySense
}

// DictionarySense is one candidate target-language rendering of the
// source word. Examples may be populated inline (Yandex) or attached by a
// second positional fetch (Microsoft).
type DictionarySense struct {
	NormalizedTarget string
	Examples         []ExampleSpan
}

// ExampleSpan is a usage example decomposed into prefix/term/suffix
// fragments on both sides. Full-sentence examples leave the prefix and
// suffix fields empty.
type ExampleSpan struct {
	SourcePrefix string
	SourceTerm   string
	SourceSuffix string
	TargetPrefix string
	TargetTerm   string
	TargetSuffix string
}

// ExampleSet holds the examples returned for one position of a batched
// examples request. An empty set is valid: that translation simply has no
// usage examples.
type ExampleSet struct {
	Examples []ExampleSpan
}

// ExamplePair is one (source term, target term) entry of a batched
// examples request. The response is positionally aligned to the request.
type ExamplePair struct {
	SourceTerm string
	TargetTerm string
}

// BulkTranslate is the result of a phrase translation. No examples, no
// confidence ranking.
type BulkTranslate struct {
	Translations []TranslatedText
}

// TranslatedText is one entry of a bulk translation result.
type TranslatedText struct {
	Text string
}

// GenerativeEntry is one candidate translation parsed from a generative
// model's structured output, in the order the model produced it.
type GenerativeEntry struct {
	Target  string
	Example *GenerativePair
}

// GenerativePair is a paired example sentence in both languages.
type GenerativePair struct {
	Source string
	Target string
}
