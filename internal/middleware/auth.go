package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/crypto"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

type contextKey string

const surveyorIDKey contextKey = "surveyorID"

// JWTAuth returns middleware that validates a Bearer token from the Authorization header.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := WithSurveyorID(r.Context(), claims.SurveyorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth attaches the surveyor ID of a valid Bearer token to the request
// context and lets requests without one through unchanged.
func OptionalJWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if found && token != "" {
				if claims, err := crypto.ValidateToken(token, secret); err == nil {
					r = r.WithContext(WithSurveyorID(r.Context(), claims.SurveyorID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSurveyorID returns a context carrying the authenticated surveyor ID.
func WithSurveyorID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, surveyorIDKey, id)
}

// SurveyorIDFromContext extracts the authenticated surveyor ID from the request context.
func SurveyorIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(surveyorIDKey).(int)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.StatusResponse{Success: false, Message: msg})
}
