package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/metrics"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns its claims
	ValidateToken(ctx context.Context, token string) (auth0.ClaimSet, error)
}

// AuthMiddleware guards handlers behind a verified token and a permission
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authorize extracts the bearer token from r, verifies it and checks that it
// grants permission. It returns the verified claims or an error that is an
// *auth0.AuthError whenever the validator reports one.
func (m *AuthMiddleware) Authorize(r *http.Request, permission string) (auth0.ClaimSet, error) {
	token, err := GetTokenAuthHeader(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.validator.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	if err := auth0.CheckPermission(permission, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// RequirePermission returns middleware that only calls next for requests
// carrying a valid token that grants permission. The claims are available
// to next via GetClaimsFromContext.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.Authorize(r, permission)
			if err != nil {
				m.writeAuthError(w, requestID, permission, err)
				return
			}

			metrics.AuthDecisionsTotal.WithLabelValues(permission, "granted").Inc()
			m.logger.Debug("permission granted",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject()),
				zap.String("permission", permission))

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, requestID, permission string, err error) {
	var authErr *auth0.AuthError
	if !errors.As(err, &authErr) {
		// Validators outside auth0 only tell us the token was rejected
		metrics.AuthDecisionsTotal.WithLabelValues(permission, "unauthorized").Inc()
		m.logger.Warn("token validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	metrics.AuthDecisionsTotal.WithLabelValues(permission, string(authErr.Kind)).Inc()
	m.logger.Warn("authorization failed",
		zap.String("request_id", requestID),
		zap.String("permission", permission),
		zap.String("kind", string(authErr.Kind)),
		zap.Int("status", authErr.StatusCode),
		zap.Error(err))

	if err := utils.WriteError(w, authErr.StatusCode, authErr.Description, authErr.Code, nil); err != nil {
		m.logger.Error("failed to write auth error response", zap.Error(err))
	}
}

// GetTokenAuthHeader extracts the token from an "Authorization: Bearer
// <token>" header. The header must split on single spaces into exactly two
// parts and the scheme is matched case-insensitively.
func GetTokenAuthHeader(r *http.Request) (string, error) {
	values := r.Header.Values("Authorization")
	if len(values) == 0 {
		return "", auth0.ErrMissingHeader
	}

	parts := strings.Split(values[0], " ")
	if len(parts) != 2 {
		return "", auth0.ErrMalformedHeader
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", auth0.ErrMalformedHeader
	}

	return parts[1], nil
}
