package middleware

import (
	"net/http"

	"casefile/internal/httputil"
)

// UserContext resolves the caller's user id from the X-User-ID header and
// stores it in the request context. Requests without the header are
// rejected; ownership checks downstream depend on it. The gateway in
// front of this service authenticates the caller and sets the header.
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				httputil.RespondError(w, http.StatusBadRequest, "X-User-ID header is required")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
