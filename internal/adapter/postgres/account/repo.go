// Package account implements the credit account repository using
// PostgreSQL. Debits use a conditional single-statement update so
// concurrent calls can never drive a balance below zero.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/neotexto/neotexto-backend/internal/adapter/postgres"
	"github.com/neotexto/neotexto-backend/internal/domain"
)

// Repo provides credit account persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT id, credit, created_at, updated_at
FROM users
WHERE id = $1`

const createSQL = `
INSERT INTO users (id, credit)
VALUES ($1, $2)`

const debitSQL = `
UPDATE users
SET credit = credit - $2, updated_at = now()
WHERE id = $1 AND credit >= $2
RETURNING credit`

const creditSQL = `
UPDATE users
SET credit = credit + $2, updated_at = now()
WHERE id = $1
RETURNING credit`

// Get returns the credit account for a user.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var acc domain.CreditAccount
	err := querier.QueryRow(ctx, getSQL, userID).
		Scan(&acc.UserID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "account", userID)
	}

	return &acc, nil
}

// Create inserts a new account with the given starting balance.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, balance int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, createSQL, userID, balance); err != nil {
		return postgres.MapError(err, "account", userID)
	}

	return nil
}

// DebitIfSufficient atomically subtracts amount from the balance if and
// only if the balance covers it. The conditional update is the floor
// check: no read-modify-write, no double spend under concurrency.
// Returns domain.ErrInsufficientCredit when the balance is too low, and
// the new balance on success.
func (r *Repo) DebitIfSufficient(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit amount %d: %w", amount, domain.ErrValidation)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var balance int
	err := querier.QueryRow(ctx, debitSQL, userID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, postgres.MapError(err, "account", userID)
	}

	// No row updated: either the user is unknown or the balance is short.
	if _, getErr := r.Get(ctx, userID); getErr != nil {
		return 0, getErr
	}

	return 0, fmt.Errorf("account %s: %w", userID, domain.ErrInsufficientCredit)
}

// Credit adds amount to the balance (top-up, admin operation).
func (r *Repo) Credit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount %d: %w", amount, domain.ErrValidation)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var balance int
	if err := querier.QueryRow(ctx, creditSQL, userID, amount).Scan(&balance); err != nil {
		return 0, postgres.MapError(err, "account", userID)
	}

	return balance, nil
}
