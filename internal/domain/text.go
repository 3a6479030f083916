package domain

import (
	"time"

	"github.com/google/uuid"
)

// PracticeText is a generated or imported reading text. Generated texts
// start as a placeholder with GenerationDone=false; a background task
// fills Body and Lemmas and flips the flag. Callers poll for completion.
type PracticeText struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	LanguageID     *uuid.UUID
	Subject        string
	Body           string
	Lemmas         string
	GenerationDone bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
