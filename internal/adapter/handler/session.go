package handler

import (
	"net/http"

	"skuunup-auth/config"
	"skuunup-auth/internal/domain"
	"skuunup-auth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionHandler exposes session resolution and logout to route handlers.
type SessionHandler struct {
	uc  *usecase.ResolveSession
	cfg *config.Config
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.ResolveSession, cfg *config.Config) *SessionHandler {
	return &SessionHandler{uc: uc, cfg: cfg}
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK       bool                     `json:"ok"`
	Identity *domain.ResolvedIdentity `json:"identity"`
}

// Resolve processes GET /v1/session and returns the resolved identity.
func (h *SessionHandler) Resolve(c echo.Context) error {
	cookie, err := c.Cookie(h.cfg.CookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	identity, err := h.uc.Execute(c.Request().Context(), cookie.Value)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, sessionResponse{OK: true, Identity: identity})
}

// Logout processes POST /v1/logout by clearing the session cookie. The
// token itself stays valid until expiry; the cookie is the only carrier.
func (h *SessionHandler) Logout(c echo.Context) error {
	c.SetCookie(expiredSessionCookie(h.cfg))
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
