package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/service/texts"
	"github.com/neotexto/neotexto-backend/pkg/ctxutil"
)

// textsService defines the minimal interface needed by TextsHandler.
type textsService interface {
	Generate(ctx context.Context, in texts.GenerateInput) (*domain.PracticeText, error)
	ImportText(ctx context.Context, in texts.ImportInput) (*domain.PracticeText, error)
	GetText(ctx context.Context, userID, textID uuid.UUID) (*domain.PracticeText, error)
	ListTexts(ctx context.Context, userID uuid.UUID) ([]domain.PracticeText, error)
	DeleteText(ctx context.Context, userID, textID uuid.UUID) error
}

// TextsHandler serves the practice text endpoints.
type TextsHandler struct {
	svc textsService
	log *slog.Logger
}

// NewTextsHandler creates a TextsHandler.
func NewTextsHandler(svc textsService, logger *slog.Logger) *TextsHandler {
	return &TextsHandler{svc: svc, log: logger.With("handler", "texts")}
}

// createTextRequest covers both creation modes: Text set means import,
// Subject set means generation.
type createTextRequest struct {
	Text       string     `json:"text"`
	Subject    string     `json:"subject"`
	LanguageID *uuid.UUID `json:"languageId"`
	Length     int        `json:"length"`
	Level      string     `json:"level"`
}

type textResponse struct {
	ID             uuid.UUID  `json:"id"`
	LanguageID     *uuid.UUID `json:"languageId,omitempty"`
	Subject        string     `json:"subject"`
	Body           string     `json:"text"`
	Lemmas         string     `json:"lemmas"`
	GenerationDone bool       `json:"hasFinishedGeneration"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Create handles POST /api/texts. Imported texts come back completed
// with 201; generation requests return the placeholder with 202.
func (h *TextsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Text != "" {
		if req.LanguageID == nil {
			writeError(w, http.StatusBadRequest, "languageId is required for imported texts")
			return
		}
		txt, err := h.svc.ImportText(r.Context(), texts.ImportInput{
			UserID:     userID,
			LanguageID: *req.LanguageID,
			Text:       req.Text,
			Subject:    req.Subject,
		})
		if err != nil {
			respondError(w, h.log, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTextResponse(txt))
		return
	}

	txt, err := h.svc.Generate(r.Context(), texts.GenerateInput{
		UserID:     userID,
		LanguageID: req.LanguageID,
		Subject:    req.Subject,
		Length:     req.Length,
		Level:      req.Level,
	})
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toTextResponse(txt))
}

// Get handles GET /api/texts/{id}. Clients poll it until
// hasFinishedGeneration flips.
func (h *TextsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	textID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid text id")
		return
	}

	txt, err := h.svc.GetText(r.Context(), userID, textID)
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTextResponse(txt))
}

// List handles GET /api/texts.
func (h *TextsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.svc.ListTexts(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}

	out := make([]textResponse, 0, len(list))
	for i := range list {
		out = append(out, toTextResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/texts/{id}.
func (h *TextsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	textID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid text id")
		return
	}

	if err := h.svc.DeleteText(r.Context(), userID, textID); err != nil {
		respondError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTextResponse(txt *domain.PracticeText) textResponse {
	return textResponse{
		ID:             txt.ID,
		LanguageID:     txt.LanguageID,
		Subject:        txt.Subject,
		Body:           txt.Body,
		Lemmas:         txt.Lemmas,
		GenerationDone: txt.GenerationDone,
		CreatedAt:      txt.CreatedAt,
	}
}
