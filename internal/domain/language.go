package domain

import (
	"time"

	"github.com/google/uuid"
)

// Language is immutable reference data seeded offline; the translation
// flow only ever reads it.
type Language struct {
	ID        uuid.UUID
	Name      string
	Code      string // ISO-style short code, at most 5 characters
	CreatedAt time.Time
}
