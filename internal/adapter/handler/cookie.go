package handler

import (
	"net/http"
	"time"

	"skuunup-auth/config"
)

// newSessionCookie builds the session cookie carrying a signed token.
// HttpOnly and SameSite=Strict always; Secure outside development.
func newSessionCookie(cfg *config.Config, token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	}
}

// expiredSessionCookie builds the clearing cookie set on logout: an
// immediately expired value with attributes identical to the issuing cookie.
func expiredSessionCookie(cfg *config.Config) *http.Cookie {
	c := newSessionCookie(cfg, "", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
