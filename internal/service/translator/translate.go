package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/provider"
)

// Translate runs the dispatch state machine: cache lookup, credit check,
// provider call, normalization, debit. A cache hit and an empty provider
// result are both free; the debit happens exactly once, after at least
// one translation row is committed.
func (s *Service) Translate(ctx context.Context, in TranslateInput) (*TranslateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	langFrom, err := s.languages.GetByID(ctx, in.LanguageFromID)
	if err != nil {
		return nil, fmt.Errorf("get source language: %w", err)
	}
	langTo, err := s.languages.GetByID(ctx, in.LanguageToID)
	if err != nil {
		return nil, fmt.Errorf("get target language: %w", err)
	}

	cached, err := s.translations.FindCached(ctx, in.Word, langFrom.ID, langTo.ID, in.Provider)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if len(cached) > 0 {
		return s.assemble(ctx, in.UserID, cached, true)
	}

	// Concurrent misses on the same key share one provider round trip.
	// Only the leader pays; followers re-read the committed rows.
	key := in.Word + "|" + langFrom.ID.String() + "|" + langTo.ID.String() + "|" + in.Provider.String()
	var leader bool
	v, err, _ := s.flights.Do(key, func() (any, error) {
		leader = true
		return s.translateMiss(ctx, in, langFrom, langTo)
	})
	if err != nil {
		if leader {
			return nil, err
		}
		// The flight error can be specific to the leader, such as a lost
		// debit race after the rows were already committed. Followers
		// re-check the cache before surfacing it.
		cached, cacheErr := s.translations.FindCached(ctx, in.Word, langFrom.ID, langTo.ID, in.Provider)
		if cacheErr == nil && len(cached) > 0 {
			return s.assemble(ctx, in.UserID, cached, true)
		}
		return nil, err
	}
	result := v.(*TranslateResult)
	if leader {
		return result, nil
	}

	cached, err = s.translations.FindCached(ctx, in.Word, langFrom.ID, langTo.ID, in.Provider)
	if err == nil && len(cached) > 0 {
		return s.assemble(ctx, in.UserID, cached, true)
	}

	return result, nil
}

// translateMiss handles the cache miss path for the flight leader.
func (s *Service) translateMiss(ctx context.Context, in TranslateInput, langFrom, langTo *domain.Language) (*TranslateResult, error) {
	account, err := s.accounts.Get(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account.Balance < s.cfg.TranslationCost {
		return nil, domain.ErrInsufficientCredit
	}

	sourceText, senses, err := s.fetch(ctx, in, langFrom, langTo)
	if err != nil {
		if errors.Is(err, provider.ErrUnsupportedPair) {
			s.log.InfoContext(ctx, "unsupported language pair",
				slog.String("provider", in.Provider.String()),
				slog.String("pair", langFrom.Code+"-"+langTo.Code),
			)
			return s.emptyResult(in, langFrom), nil
		}
		s.log.ErrorContext(ctx, "provider call failed",
			slog.String("provider", in.Provider.String()),
			slog.String("word", in.Word),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("provider call: %w", err)
	}
	if len(senses) == 0 {
		return s.emptyResult(in, langFrom), nil
	}

	queryWord, entries, err := s.persist(ctx, in, langFrom, langTo, sourceText, senses)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return s.emptyResult(in, langFrom), nil
	}

	// The rows above are committed either way: a lost debit race leaves
	// them cached, so the caller's retry is a free hit.
	if _, err := s.accounts.DebitIfSufficient(ctx, in.UserID, s.cfg.TranslationCost); err != nil {
		return nil, err
	}

	s.recordVocabulary(ctx, in.UserID, entries)

	s.log.InfoContext(ctx, "translation dispatched",
		slog.String("provider", in.Provider.String()),
		slog.String("word", in.Word),
		slog.Int("translations", len(entries)),
	)

	return &TranslateResult{QueryWord: queryWord, Translations: entries}, nil
}

// fetch calls the selected provider and normalizes its payload into a
// source text plus ordered senses. Phrases take the bulk path on
// microsoft and yield nothing on yandex, whose API is word-only.
func (s *Service) fetch(ctx context.Context, in TranslateInput, langFrom, langTo *domain.Language) (string, []provider.DictionarySense, error) {
	switch in.Provider {
	case domain.ProviderMicrosoft:
		if in.isPhrase() {
			bulk, err := s.microsoft.Translate(ctx, in.Word, langFrom.Code, langTo.Code)
			if err != nil {
				return "", nil, err
			}
			senses := make([]provider.DictionarySense, 0, len(bulk.Translations))
			for _, tr := range bulk.Translations {
				senses = append(senses, provider.DictionarySense{NormalizedTarget: tr.Text})
			}
			return in.Word, senses, nil
		}

		lookup, err := s.microsoft.LookupDictionary(ctx, in.Word, langFrom.Code, langTo.Code)
		if err != nil {
			return "", nil, err
		}
		if len(lookup.Senses) == 0 {
			return lookup.NormalizedSource, nil, nil
		}

		pairs := make([]provider.ExamplePair, 0, len(lookup.Senses))
		for _, sense := range lookup.Senses {
			pairs = append(pairs, provider.ExamplePair{
				SourceTerm: lookup.NormalizedSource,
				TargetTerm: sense.NormalizedTarget,
			})
		}
		sets, err := s.microsoft.LookupExamples(ctx, pairs, langFrom.Code, langTo.Code)
		if err != nil {
			return "", nil, err
		}
		senses := lookup.Senses
		for i := range senses {
			if i < len(sets) {
				senses[i].Examples = sets[i].Examples
			}
		}
		return lookup.NormalizedSource, senses, nil

	case domain.ProviderYandex:
		if in.isPhrase() {
			return in.Word, nil, nil
		}
		lookup, err := s.yandex.Lookup(ctx, in.Word, langFrom.Code, langTo.Code)
		if err != nil {
			return "", nil, err
		}
		return lookup.NormalizedSource, lookup.Senses, nil

	case domain.ProviderChatGPT:
		entries, err := s.chatgpt.LookupWord(ctx, in.Word, langFrom.Name, langTo.Name)
		if err != nil {
			return "", nil, err
		}
		senses := make([]provider.DictionarySense, 0, len(entries))
		for _, entry := range entries {
			sense := provider.DictionarySense{NormalizedTarget: entry.Target}
			if entry.Example != nil {
				sense.Examples = []provider.ExampleSpan{{
					SourceTerm: entry.Example.Source,
					TargetTerm: entry.Example.Target,
				}}
			}
			senses = append(senses, sense)
		}
		return in.Word, senses, nil
	}

	return "", nil, domain.ErrUnknownProvider
}

// assemble builds a result from cached translation rows, loading their
// examples in one query.
func (s *Service) assemble(ctx context.Context, userID uuid.UUID, cached []domain.Translation, fromCache bool) (*TranslateResult, error) {
	ids := make([]uuid.UUID, 0, len(cached))
	for _, tr := range cached {
		ids = append(ids, tr.ID)
	}

	examplesByID, err := s.examples.ListByTranslationIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}

	entries := make([]TranslationEntry, 0, len(cached))
	for _, tr := range cached {
		examples := examplesByID[tr.ID]
		if examples == nil {
			examples = []domain.Example{}
		}
		entries = append(entries, TranslationEntry{Translation: tr, Examples: examples})
	}

	s.recordVocabulary(ctx, userID, entries)

	return &TranslateResult{
		QueryWord:    cached[0].WordSource,
		Translations: entries,
		FromCache:    fromCache,
	}, nil
}

// recordVocabulary remembers the user's lookups for practice text
// generation. Failures are logged, not surfaced: history is best effort.
func (s *Service) recordVocabulary(ctx context.Context, userID uuid.UUID, entries []TranslationEntry) {
	for _, entry := range entries {
		if err := s.vocab.Record(ctx, userID, entry.Translation.ID); err != nil {
			s.log.WarnContext(ctx, "record vocabulary failed",
				slog.String("translation_id", entry.Translation.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// emptyResult is the successful no-translations outcome. The query word
// is echoed back unpersisted.
func (s *Service) emptyResult(in TranslateInput, langFrom *domain.Language) *TranslateResult {
	return &TranslateResult{
		QueryWord: domain.Word{
			LanguageID: langFrom.ID,
			Text:       in.Word,
			Language:   *langFrom,
		},
		Translations: []TranslationEntry{},
	}
}
