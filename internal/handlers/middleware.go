package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const ActorContextKey ContextKey = "actor"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.JWTManager
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.JWTManager, limiter *security.RateLimiter) *Middleware {
	return &Middleware{tokens: tokens, limiter: limiter}
}

func (m *Middleware) authenticate(r *http.Request) (models.MemberRef, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return models.MemberRef{}, false
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return models.MemberRef{}, false
	}

	kind := models.MemberKind(claims.ActorKind)
	if !kind.Valid() || claims.Subject == "" {
		return models.MemberRef{}, false
	}
	return models.MemberRef{Kind: kind, ID: claims.Subject}, true
}

// RequireAuth requires a valid bearer token from any account kind
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := m.authenticate(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		ctx := context.WithValue(r.Context(), ActorContextKey, actor)
		next(w, r.WithContext(ctx))
	}
}

// RequireParent requires a valid bearer token from a parent account
func (m *Middleware) RequireParent(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromContext(r.Context()).Kind != models.KindParent {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "parent account required"})
			return
		}
		next(w, r)
	})
}

// RateLimit caps request rates per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// ActorFromContext retrieves the authenticated actor from the request
// context. The zero MemberRef means the request was not authenticated.
func ActorFromContext(ctx context.Context) models.MemberRef {
	actor, ok := ctx.Value(ActorContextKey).(models.MemberRef)
	if !ok {
		return models.MemberRef{}
	}
	return actor
}
