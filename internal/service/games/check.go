package games

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

const maxSentenceLength = 200

// CheckSentenceInput carries one sentence submission: the sentence the
// user wrote, the translation whose word pair it must use, and the
// language the feedback should be written in.
type CheckSentenceInput struct {
	UserID           uuid.UUID
	TranslationID    uuid.UUID
	AnswerLanguageID uuid.UUID
	Sentence         string
}

func (in *CheckSentenceInput) validate() error {
	in.Sentence = strings.TrimSpace(in.Sentence)

	var errs []domain.FieldError
	if in.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if in.TranslationID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "translation_id", Message: "required"})
	}
	if in.AnswerLanguageID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "answer_language_id", Message: "required"})
	}
	if in.Sentence == "" {
		errs = append(errs, domain.FieldError{Field: "sentence", Message: "required"})
	}
	if len(in.Sentence) > maxSentenceLength {
		errs = append(errs, domain.FieldError{Field: "sentence", Message: fmt.Sprintf("must be at most %d characters", maxSentenceLength)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}

	return nil
}

// CheckSentenceResult carries the model's verdict on the sentence.
type CheckSentenceResult struct {
	Answer string
}

// CheckSentence asks the model whether the sentence uses the
// translation's word pair correctly. The credit check happens up front;
// the debit only after the model has answered.
func (s *Service) CheckSentence(ctx context.Context, in CheckSentenceInput) (*CheckSentenceResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account.Balance < s.credits.TranslationCost {
		return nil, domain.ErrInsufficientCredit
	}

	tr, err := s.translations.GetByID(ctx, in.TranslationID)
	if err != nil {
		return nil, fmt.Errorf("get translation: %w", err)
	}
	answerLang, err := s.languages.GetByID(ctx, in.AnswerLanguageID)
	if err != nil {
		return nil, fmt.Errorf("get answer language: %w", err)
	}

	answer, err := s.judge.Complete(ctx, buildJudgePrompt(in.Sentence, tr, answerLang))
	if err != nil {
		s.log.ErrorContext(ctx, "sentence check failed",
			slog.String("translation_id", in.TranslationID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("judge call: %w", err)
	}

	if _, err := s.accounts.DebitIfSufficient(ctx, in.UserID, s.credits.TranslationCost); err != nil {
		// The verdict is already produced; a lost debit race is logged,
		// not rolled back.
		s.log.WarnContext(ctx, "sentence check debit failed",
			slog.String("user_id", in.UserID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.InfoContext(ctx, "sentence checked",
		slog.String("translation_id", in.TranslationID.String()),
	)

	return &CheckSentenceResult{Answer: answer}, nil
}

// buildJudgePrompt renders the verdict prompt: confirm briefly when the
// sentence is a correct use of the word pair, otherwise explain why not.
func buildJudgePrompt(sentence string, tr *domain.Translation, answerLang *domain.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer to me in %s. ", answerLang.Name)
	fmt.Fprintf(&b, "If the following sentence [[%s]] is correct", sentence)
	if tr.WordSource.Language.Name != "" {
		fmt.Fprintf(&b, " in %s", tr.WordSource.Language.Name)
	}
	fmt.Fprintf(&b, " and is a right use of the word [[%s / %s]], ", tr.WordSource.Text, tr.WordTarget.Text)
	b.WriteString("tell me briefly that I am correct, otherwise explain why not.")
	return b.String()
}
