package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/thehungrydrop/hungrydrop/internal/session"
)

// AdminAuth guards admin console routes. Requests are rejected unless the
// admin session store holds an active, unexpired identity.
func AdminAuth(sessions *session.AdminStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := sessions.Current(r.Context()); !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Admin login required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
