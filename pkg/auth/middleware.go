package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	apphttp "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/http"
)

// Middleware enforces bearer-token auth on wrapped routes.
type Middleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

func NewMiddleware(tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, logger: logger}
}

// RequireAuth validates the Authorization header and stores the token
// claims in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
			return
		}

		claims, err := m.tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			m.logger.Debug("token rejected", zap.Error(err))
			apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin allows only requests whose token carries the admin
// role. Must be mounted after RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFromContext(r.Context())
		if !ok || role != RoleAdmin {
			apphttp.DefaultErrorHandler(w, apperrors.ForbiddenError(nil, "admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
