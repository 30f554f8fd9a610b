package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// SharedSecret returns middleware that rejects requests whose header value
// does not match the configured secret. The comparison is constant-time and
// runs before any body handling, so a mismatch never triggers partial
// processing.
func SharedSecret(header, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
