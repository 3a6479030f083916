package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/provider"
)

// persist writes the normalized senses into the word/translation/example
// graph inside one transaction. Every row uses get-or-create semantics,
// so a concurrent miss on the same key collapses onto the same rows.
// Examples are attached only by the call that created the translation;
// re-created rows keep the examples they already have.
func (s *Service) persist(
	ctx context.Context,
	in TranslateInput,
	langFrom, langTo *domain.Language,
	sourceText string,
	senses []provider.DictionarySense,
) (domain.Word, []TranslationEntry, error) {
	var queryWord domain.Word
	var entries []TranslationEntry

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		source, _, err := s.words.GetOrCreate(txCtx, langFrom.ID, sourceText)
		if err != nil {
			return fmt.Errorf("get or create source word: %w", err)
		}
		queryWord = source

		for _, sense := range senses {
			targetText := strings.TrimSpace(sense.NormalizedTarget)
			if targetText == "" {
				continue
			}

			target, _, err := s.words.GetOrCreate(txCtx, langTo.ID, targetText)
			if err != nil {
				return fmt.Errorf("get or create target word %q: %w", targetText, err)
			}

			translation, created, err := s.translations.GetOrCreate(txCtx, source.ID, target.ID, in.Provider)
			if err != nil {
				return fmt.Errorf("get or create translation: %w", err)
			}
			translation.WordSource = source
			translation.WordTarget = target

			examples := []domain.Example{}
			if created && len(sense.Examples) > 0 {
				examples, err = s.examples.CreateBatch(txCtx, translation.ID, spansToExamples(translation.ID, sense.Examples))
				if err != nil {
					return fmt.Errorf("create examples: %w", err)
				}
			}

			entries = append(entries, TranslationEntry{Translation: translation, Examples: examples})
		}

		return nil
	})
	if txErr != nil {
		return domain.Word{}, nil, fmt.Errorf("persist translations: %w", txErr)
	}

	return queryWord, entries, nil
}

func spansToExamples(translationID uuid.UUID, spans []provider.ExampleSpan) []domain.Example {
	examples := make([]domain.Example, 0, len(spans))
	for _, span := range spans {
		examples = append(examples, domain.Example{
			TranslationID: translationID,
			SourcePrefix:  span.SourcePrefix,
			SourceTerm:    span.SourceTerm,
			SourceSuffix:  span.SourceSuffix,
			TargetPrefix:  span.TargetPrefix,
			TargetTerm:    span.TargetTerm,
			TargetSuffix:  span.TargetSuffix,
		})
	}
	return examples
}
