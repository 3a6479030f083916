package texts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/lemma"
)

const (
	defaultLength = 50
	defaultLevel  = "intermediate"
)

// GenerateInput describes a generation request. Length and Level fall
// back to 50 words and "intermediate" when unset.
type GenerateInput struct {
	UserID     uuid.UUID
	LanguageID *uuid.UUID
	Subject    string
	Length     int
	Level      string
}

func (in *GenerateInput) validate() error {
	in.Subject = strings.TrimSpace(in.Subject)
	if in.UserID == uuid.Nil {
		return domain.NewValidationError("user_id", "required")
	}
	if in.Length == 0 {
		in.Length = defaultLength
	}
	if in.Length < 0 {
		return domain.NewValidationError("length", "must be positive")
	}
	if in.Level == "" {
		in.Level = defaultLevel
	}
	return nil
}

// Generate creates a placeholder text and starts a detached generation
// task, returning immediately. Callers observe completion by polling the
// record's GenerationDone flag. The credit check happens up front; the
// debit only after the generated text is persisted.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*domain.PracticeText, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account.Balance < s.credits.TextCost {
		return nil, domain.ErrInsufficientCredit
	}

	// Language is optional; English is the historical default.
	langName, langCode := "english", "en"
	var langID uuid.UUID
	if in.LanguageID != nil {
		language, err := s.languages.GetByID(ctx, *in.LanguageID)
		if err != nil {
			return nil, fmt.Errorf("get language: %w", err)
		}
		langName, langCode, langID = language.Name, language.Code, language.ID
	}

	txt := &domain.PracticeText{
		ID:         uuid.New(),
		UserID:     in.UserID,
		LanguageID: in.LanguageID,
		Subject:    in.Subject,
		Body:       fmt.Sprintf("Your text about %s is being generated...", in.Subject),
	}
	if err := s.texts.Create(ctx, txt); err != nil {
		return nil, fmt.Errorf("create placeholder: %w", err)
	}

	// The task outlives the request; detach from its cancellation.
	bgCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.generate(bgCtx, txt, in, langName, langCode, langID)
	}()

	return txt, nil
}

// generate runs the detached part: prompt, model call, lemmatization,
// completion, debit. On failure the placeholder stays unfinished and
// nothing is debited.
func (s *Service) generate(ctx context.Context, txt *domain.PracticeText, in GenerateInput, langName, langCode string, langID uuid.UUID) {
	prompt := s.buildPrompt(ctx, in, langName, langID)

	generated, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "text generation failed",
			slog.String("text_id", txt.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	body, lemmas := s.lemmatize(ctx, langCode, generated)

	if err := s.texts.Complete(ctx, txt.ID, body, lemmas); err != nil {
		s.log.ErrorContext(ctx, "complete text failed",
			slog.String("text_id", txt.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	if _, err := s.accounts.DebitIfSufficient(ctx, in.UserID, s.credits.TextCost); err != nil {
		// The text is already delivered; a lost debit race is logged,
		// not rolled back.
		s.log.WarnContext(ctx, "text debit failed",
			slog.String("user_id", in.UserID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "text generated",
		slog.String("text_id", txt.ID.String()),
		slog.Int("length_words", in.Length),
	)
}

// buildPrompt renders the generation prompt, biased toward the user's
// translation history when there is any.
func (s *Service) buildPrompt(ctx context.Context, in GenerateInput, langName string, langID uuid.UUID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a text of %d words in %s", in.Length, langName)

	subject := in.Subject
	if subject == "" {
		subject = "anything"
	}
	fmt.Fprintf(&b, " about '%s'", subject)
	fmt.Fprintf(&b, " for a %s level.", in.Level)

	if langID != uuid.Nil {
		words, err := s.vocab.RecentSourceWords(ctx, in.UserID, langID, s.cfg.VocabularyLimit)
		if err != nil {
			s.log.WarnContext(ctx, "load vocabulary failed", slog.String("error", err.Error()))
		} else if len(words) > 0 {
			fmt.Fprintf(&b, " Use the five most relevant words from this list : %s.", strings.Join(words, ", "))
		}
	}

	return b.String()
}

// lemmatize runs the language's analyzer over the text and renders the
// persisted token and lemma strings.
func (s *Service) lemmatize(ctx context.Context, langCode, text string) (body, lemmas string) {
	tokens, lemmaList, err := s.lemmas.ForLanguage(langCode).Lemmatize(text)
	if err != nil {
		s.log.WarnContext(ctx, "lemmatize failed, storing raw text",
			slog.String("language", langCode),
			slog.String("error", err.Error()),
		)
		return text, text
	}
	return lemma.Join(tokens), lemma.Join(lemmaList)
}
