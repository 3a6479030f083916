package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/provider"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps domain and provider errors to HTTP statuses. The
// error text is surfaced for client errors and hidden for server-side
// failures.
func respondError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientCredit):
		writeError(w, http.StatusPaymentRequired, "insufficient credit")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case isProviderFailure(err):
		log.ErrorContext(r.Context(), "provider failure", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "translation provider unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isProviderFailure(err error) bool {
	var transportErr *provider.TransportError
	var parseErr *provider.ParseError
	return errors.As(err, &transportErr) || errors.As(err, &parseErr)
}
