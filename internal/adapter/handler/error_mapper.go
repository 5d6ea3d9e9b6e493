package handler

import (
	"errors"
	"net/http"

	"skuunup-auth/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
// Unauthenticated outcomes map to 401; a store outage maps to 503 so clients
// can retry instead of forcing a re-login.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTenantMismatch):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "identity store unavailable")

	case errors.Is(err, domain.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "subject not found")

	case errors.Is(err, domain.ErrTokenEncoding):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
