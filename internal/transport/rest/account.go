package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/pkg/ctxutil"
)

// accountGetter defines the minimal interface needed by AccountHandler.
type accountGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)
}

// AccountHandler serves the credit balance endpoint.
type AccountHandler struct {
	accounts accountGetter
	log      *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts accountGetter, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: logger.With("handler", "account")}
}

type accountResponse struct {
	UserID  uuid.UUID `json:"userId"`
	Balance int       `json:"balance"`
}

// Get handles GET /api/account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acc, err := h.accounts.Get(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{UserID: acc.UserID, Balance: acc.Balance})
}
