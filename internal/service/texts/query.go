package texts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

// GetText returns one of the user's texts. Callers poll it for the
// GenerationDone flag. Another user's text is indistinguishable from a
// missing one.
func (s *Service) GetText(ctx context.Context, userID, textID uuid.UUID) (*domain.PracticeText, error) {
	txt, err := s.texts.GetByID(ctx, textID)
	if err != nil {
		return nil, err
	}
	if txt.UserID != userID {
		return nil, fmt.Errorf("practice_text %s: %w", textID, domain.ErrNotFound)
	}
	return txt, nil
}

// ListTexts returns the user's texts, newest first.
func (s *Service) ListTexts(ctx context.Context, userID uuid.UUID) ([]domain.PracticeText, error) {
	return s.texts.ListByUser(ctx, userID)
}

// DeleteText removes one of the user's texts.
func (s *Service) DeleteText(ctx context.Context, userID, textID uuid.UUID) error {
	return s.texts.Delete(ctx, textID, userID)
}
