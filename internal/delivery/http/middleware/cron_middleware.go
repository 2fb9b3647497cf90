package middleware

import (
	"crypto/subtle"
	"net/http"

	"lesson-booking/pkg/response"
)

// RequireCronSecret guards the notification trigger endpoints. The secret may
// arrive as a bearer token or as the "key" query parameter for schedulers that
// cannot set headers. An empty secret locks the endpoints.
func RequireCronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Unauthorized(w, "")
				return
			}

			provided, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				provided = r.URL.Query().Get("key")
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				response.Unauthorized(w, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
