package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/service/games"
	"github.com/neotexto/neotexto-backend/pkg/ctxutil"
)

// gamesService defines the minimal interface needed by GamesHandler.
type gamesService interface {
	CheckSentence(ctx context.Context, in games.CheckSentenceInput) (*games.CheckSentenceResult, error)
}

// GamesHandler serves the sentence game endpoint.
type GamesHandler struct {
	svc gamesService
	log *slog.Logger
}

// NewGamesHandler creates a GamesHandler.
func NewGamesHandler(svc gamesService, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{svc: svc, log: logger.With("handler", "games")}
}

type checkSentenceRequest struct {
	Sentence         string    `json:"sentence"`
	TranslationID    uuid.UUID `json:"translationId"`
	AnswerLanguageID uuid.UUID `json:"answerLanguageId"`
}

type checkSentenceResponse struct {
	Answer string `json:"answer"`
}

// CheckSentence handles POST /api/games/sentence-check.
func (h *GamesHandler) CheckSentence(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkSentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.svc.CheckSentence(r.Context(), games.CheckSentenceInput{
		UserID:           userID,
		TranslationID:    req.TranslationID,
		AnswerLanguageID: req.AnswerLanguageID,
		Sentence:         req.Sentence,
	})
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkSentenceResponse{Answer: result.Answer})
}
