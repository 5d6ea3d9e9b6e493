package middleware

import (
	"errors"
	"net/http"

	"skuunup-auth/internal/domain"
	"skuunup-auth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys set by RequireAuth.
const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "user_id"
	ContextKeyTenantID = "tenant_id"
	ContextKeyRole     = "user_role"
)

// AuthMiddleware resolves the session cookie and guards routes by role.
type AuthMiddleware struct {
	uc         *usecase.ResolveSession
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(uc *usecase.ResolveSession, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{uc: uc, cookieName: cookieName}
}

// RequireAuth resolves the session and stores the identity on the request
// context. Unauthenticated requests get 401; a store outage gets 503 so the
// client can retry without re-login.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(m.cookieName); err == nil {
				token = cookie.Value
			}

			identity, err := m.uc.Execute(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrStoreUnavailable) {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "identity store unavailable")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(ContextKeyIdentity, identity)
			c.Set(ContextKeyUserID, identity.SubjectID.String())
			c.Set(ContextKeyTenantID, identity.TenantID.String())
			c.Set(ContextKeyRole, string(identity.Role))

			return next(c)
		}
	}
}

// RequireRole guards a route behind a specific role. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(ContextKeyIdentity).(*domain.ResolvedIdentity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if identity.Role != required {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

// RequirePartition guards a route behind a hydration partition, e.g. any
// staff role. Must run after RequireAuth.
func (m *AuthMiddleware) RequirePartition(required domain.Partition) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(ContextKeyIdentity).(*domain.ResolvedIdentity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if identity.Role.Partition() != required {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}
