package texts

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Pasted and OCR'd text carries scan artifacts: words hyphenated across
// line breaks, and hard line breaks inside sentences.
var (
	hyphenBreak = regexp.MustCompile(`([\p{L}\p{N}_]+)-\n([\p{L}\p{N}_]+)`)
	lineBreak   = regexp.MustCompile(`([\p{L}\p{N}_]+)\n([\p{L}\p{N}_]+)`)
)

// ImportInput describes a pasted or OCR'd text.
type ImportInput struct {
	UserID     uuid.UUID
	LanguageID uuid.UUID
	Text       string
	Subject    string
}

func (in *ImportInput) validate() error {
	in.Subject = strings.TrimSpace(in.Subject)
	var errs []domain.FieldError
	if in.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if in.LanguageID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "language_id", Message: "required"})
	}
	if strings.TrimSpace(in.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ImportText cleans up and lemmatizes an externally produced text and
// stores it completed. Imports are free: no credit check, no debit.
func (s *Service) ImportText(ctx context.Context, in ImportInput) (*domain.PracticeText, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	language, err := s.languages.GetByID(ctx, in.LanguageID)
	if err != nil {
		return nil, fmt.Errorf("get language: %w", err)
	}

	cleaned := Dehyphenate(in.Text)
	body, lemmas := s.lemmatize(ctx, language.Code, cleaned)

	langID := language.ID
	txt := &domain.PracticeText{
		ID:             uuid.New(),
		UserID:         in.UserID,
		LanguageID:     &langID,
		Subject:        in.Subject,
		Body:           body,
		Lemmas:         lemmas,
		GenerationDone: true,
	}
	if err := s.texts.Create(ctx, txt); err != nil {
		return nil, fmt.Errorf("create imported text: %w", err)
	}

	return txt, nil
}

// Dehyphenate joins words split across line breaks ("fi-\nnish" becomes
// "finish") and replaces remaining mid-sentence breaks with spaces.
func Dehyphenate(text string) string {
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	return lineBreak.ReplaceAllString(text, "$1 $2")
}
