package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/service/translator"
	"github.com/neotexto/neotexto-backend/pkg/ctxutil"
)

// translatorService defines the minimal interface needed by TranslateHandler.
type translatorService interface {
	Translate(ctx context.Context, in translator.TranslateInput) (*translator.TranslateResult, error)
}

// TranslateHandler serves the translation dispatch endpoint.
type TranslateHandler struct {
	svc translatorService
	log *slog.Logger
}

// NewTranslateHandler creates a TranslateHandler.
func NewTranslateHandler(svc translatorService, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, log: logger.With("handler", "translate")}
}

type translateRequest struct {
	Word           string    `json:"word"`
	LanguageFromID uuid.UUID `json:"languageFromId"`
	LanguageToID   uuid.UUID `json:"languageToId"`
	Provider       string    `json:"provider"`
}

type wordResponse struct {
	ID       uuid.UUID        `json:"id,omitempty"`
	Text     string           `json:"text"`
	Language languageResponse `json:"language"`
}

type languageResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

type exampleResponse struct {
	SourcePrefix string `json:"sourcePrefix"`
	SourceTerm   string `json:"sourceTerm"`
	SourceSuffix string `json:"sourceSuffix"`
	TargetPrefix string `json:"targetPrefix"`
	TargetTerm   string `json:"targetTerm"`
	TargetSuffix string `json:"targetSuffix"`
}

type translationResponse struct {
	ID         uuid.UUID         `json:"id"`
	Provider   string            `json:"provider"`
	WordSource wordResponse      `json:"wordSource"`
	WordTarget wordResponse      `json:"wordTarget"`
	Examples   []exampleResponse `json:"examples"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type translateResponse struct {
	Word         wordResponse          `json:"word"`
	Translations []translationResponse `json:"translations"`
	FromCache    bool                  `json:"fromCache"`
}

// Create handles POST /api/translations. A freshly dispatched result
// returns 201; a cache hit returns 200.
func (h *TranslateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	prov := req.Provider
	if prov == "" {
		prov = domain.ProviderMicrosoft.String()
	}

	result, err := h.svc.Translate(r.Context(), translator.TranslateInput{
		UserID:         userID,
		Word:           req.Word,
		LanguageFromID: req.LanguageFromID,
		LanguageToID:   req.LanguageToID,
		Provider:       domain.Provider(prov),
	})
	if err != nil {
		respondError(w, h.log, r, err)
		return
	}

	status := http.StatusCreated
	if result.FromCache {
		status = http.StatusOK
	}
	writeJSON(w, status, toTranslateResponse(result))
}

func toTranslateResponse(result *translator.TranslateResult) translateResponse {
	resp := translateResponse{
		Word:         toWordResponse(result.QueryWord),
		Translations: make([]translationResponse, 0, len(result.Translations)),
		FromCache:    result.FromCache,
	}
	for _, entry := range result.Translations {
		examples := make([]exampleResponse, 0, len(entry.Examples))
		for _, ex := range entry.Examples {
			examples = append(examples, exampleResponse{
				SourcePrefix: ex.SourcePrefix,
				SourceTerm:   ex.SourceTerm,
				SourceSuffix: ex.SourceSuffix,
				TargetPrefix: ex.TargetPrefix,
				TargetTerm:   ex.TargetTerm,
				TargetSuffix: ex.TargetSuffix,
			})
		}
		resp.Translations = append(resp.Translations, translationResponse{
			ID:         entry.Translation.ID,
			Provider:   entry.Translation.Provider.String(),
			WordSource: toWordResponse(entry.Translation.WordSource),
			WordTarget: toWordResponse(entry.Translation.WordTarget),
			Examples:   examples,
			CreatedAt:  entry.Translation.CreatedAt,
		})
	}
	return resp
}

func toWordResponse(word domain.Word) wordResponse {
	return wordResponse{
		ID:   word.ID,
		Text: word.Text,
		Language: languageResponse{
			ID:   word.Language.ID,
			Name: word.Language.Name,
			Code: word.Language.Code,
		},
	}
}
