package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/neotexto/neotexto-backend/internal/domain"
)

// languageLister defines the minimal interface needed by LanguagesHandler.
type languageLister interface {
	List(ctx context.Context) ([]domain.Language, error)
}

// LanguagesHandler serves the language reference data endpoint.
type LanguagesHandler struct {
	languages languageLister
	log       *slog.Logger
}

// NewLanguagesHandler creates a LanguagesHandler.
func NewLanguagesHandler(languages languageLister, logger *slog.Logger) *LanguagesHandler {
	return &LanguagesHandler{languages: languages, log: logger.With("handler", "languages")}
}

// List handles GET /api/languages.
func (h *LanguagesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.languages.List(r.Context())
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}

	out := make([]languageResponse, 0, len(list))
	for _, lang := range list {
		out = append(out, languageResponse{ID: lang.ID, Name: lang.Name, Code: lang.Code})
	}
	writeJSON(w, http.StatusOK, out)
}
