package domain

import (
	"context"

	"github.com/google/uuid"
)

// TokenCodec signs and verifies session tokens.
type TokenCodec interface {
	Sign(claims SessionClaims) (string, error)
	Verify(token string) (*SessionClaims, error)
}

// SessionCache memoizes resolved identities for a short window. Get returns
// a copy and reports absence both for unknown subjects and expired entries.
type SessionCache interface {
	Get(subjectID uuid.UUID) (*ResolvedIdentity, bool)
	Set(subjectID uuid.UUID, identity *ResolvedIdentity)
	Invalidate(subjectID uuid.UUID)
}

// IdentityStore resolves subjects against the persistence layer. Profile
// lookups are scoped to (subjectID, tenantID); a missing row is
// ErrRecordNotFound, any other failure wraps ErrStoreUnavailable.
type IdentityStore interface {
	FindIdentityByID(ctx context.Context, subjectID uuid.UUID) (*IdentityRecord, error)
	FindLatestAdmission(ctx context.Context, subjectID, tenantID uuid.UUID) (*StudentProfile, error)
	FindLatestStaffApplication(ctx context.Context, subjectID, tenantID uuid.UUID) (*StaffProfile, error)
}
