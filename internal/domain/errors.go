package domain

import "errors"

// Resolution errors. Everything except ErrStoreUnavailable collapses to an
// unauthenticated outcome at the boundary; store failures stay distinct so
// callers can answer with a retryable status instead of forcing re-login.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidToken     = errors.New("invalid session token")
	ErrTenantMismatch   = errors.New("token tenant does not match identity tenant")
	ErrRecordNotFound   = errors.New("identity record not found")
	ErrStoreUnavailable = errors.New("identity store unavailable")
)

// Token issuance errors.
var (
	ErrTokenEncoding = errors.New("token encoding failed")
)
