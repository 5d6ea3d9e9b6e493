package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"skuunup-auth/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"tenant mismatch", domain.ErrTenantMismatch, http.StatusUnauthorized},
		{"store unavailable", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"record not found", domain.ErrRecordNotFound, http.StatusNotFound},
		{"token encoding", domain.ErrTokenEncoding, http.StatusInternalServerError},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := mapDomainError(tt.err)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	// Wrapped domain errors should still be detected
	wrapped := fmt.Errorf("context: %w", domain.ErrStoreUnavailable)
	httpErr := mapDomainError(wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)

	// Double-wrapped
	doubleWrapped := fmt.Errorf("outer: %w", wrapped)
	httpErr2 := mapDomainError(doubleWrapped)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr2.Code)
}
