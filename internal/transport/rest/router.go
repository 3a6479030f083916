package rest

import (
	"log/slog"
	"net/http"

	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/transport/middleware"
)

// RouterDeps carries everything the router needs to wire.
type RouterDeps struct {
	Health    *HealthHandler
	Translate *TranslateHandler
	Texts     *TextsHandler
	Languages *LanguagesHandler
	Account   *AccountHandler
	Games     *GamesHandler

	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger
	CORS        config.CORSConfig
	RateLimit   int
}

// NewRouter builds the HTTP handler tree. Health probes bypass identity
// and rate limiting; everything under /api requires an identified caller.
func NewRouter(deps RouterDeps) http.Handler {
	api := middleware.Chain(
		middleware.Identity(),
		deps.RateLimiter.Limit(deps.RateLimit),
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	mux.Handle("POST /api/translations", api(http.HandlerFunc(deps.Translate.Create)))

	mux.Handle("POST /api/texts", api(http.HandlerFunc(deps.Texts.Create)))
	mux.Handle("GET /api/texts", api(http.HandlerFunc(deps.Texts.List)))
	mux.Handle("GET /api/texts/{id}", api(http.HandlerFunc(deps.Texts.Get)))
	mux.Handle("DELETE /api/texts/{id}", api(http.HandlerFunc(deps.Texts.Delete)))

	mux.Handle("POST /api/games/sentence-check", api(http.HandlerFunc(deps.Games.CheckSentence)))

	mux.Handle("GET /api/languages", api(http.HandlerFunc(deps.Languages.List)))
	mux.Handle("GET /api/account", api(http.HandlerFunc(deps.Account.Get)))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORS),
	)(mux)
}
