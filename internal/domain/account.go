package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreditAccount is the usage-metering view of a user: an integer balance
// debited by a fixed cost per successful paid provider call.
type CreditAccount struct {
	UserID    uuid.UUID
	Balance   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
