package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminKey returns middleware that admits requests whose X-Admin-Key header matches key.
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Key")
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSONError(w, http.StatusForbidden, "admin key required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
