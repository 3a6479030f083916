package translator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

// TranslateInput carries one dispatch request.
type TranslateInput struct {
	UserID         uuid.UUID
	Word           string
	LanguageFromID uuid.UUID
	LanguageToID   uuid.UUID
	Provider       domain.Provider
}

// validate checks the input before any repository or network access.
func (in *TranslateInput) validate() error {
	in.Word = strings.TrimSpace(in.Word)

	var errs []domain.FieldError
	if in.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if in.Word == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	}
	if in.LanguageFromID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "language_from_id", Message: "required"})
	}
	if in.LanguageToID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "language_to_id", Message: "required"})
	}
	if in.LanguageFromID != uuid.Nil && in.LanguageFromID == in.LanguageToID {
		errs = append(errs, domain.FieldError{Field: "language_to_id", Message: "must differ from language_from_id"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}

	if !in.Provider.IsValid() {
		return domain.ErrUnknownProvider
	}

	return nil
}

// isPhrase reports whether the query is a multi-word phrase, which takes
// the bulk translation path instead of the dictionary path.
func (in *TranslateInput) isPhrase() bool {
	return strings.Contains(in.Word, " ")
}
