package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/neotexto/neotexto-backend/pkg/ctxutil"
)

// Identity resolves the calling user from the X-User-ID header set by
// the authenticating proxy in front of this service. Requests without a
// valid user are rejected; this service does no authentication itself.
func Identity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-ID")
			if raw == "" {
				http.Error(w, "missing user identity", http.StatusUnauthorized)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				http.Error(w, "invalid user identity", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
