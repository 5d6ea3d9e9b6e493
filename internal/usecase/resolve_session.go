package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skuunup-auth/internal/domain"

	"github.com/google/uuid"
)

// ResolveSession orchestrates session resolution: token verification,
// cache lookup and role-dependent profile hydration on a miss.
type ResolveSession struct {
	codec  domain.TokenCodec
	cache  domain.SessionCache
	store  domain.IdentityStore
	logger *slog.Logger
}

// NewResolveSession creates a new ResolveSession usecase.
func NewResolveSession(codec domain.TokenCodec, cache domain.SessionCache, store domain.IdentityStore, logger *slog.Logger) *ResolveSession {
	return &ResolveSession{codec: codec, cache: cache, store: store, logger: logger}
}

// Execute resolves a raw session token to an authenticated identity.
//
// Absent, malformed, expired or cross-tenant tokens all collapse to
// domain.ErrUnauthenticated so callers cannot distinguish verification
// internals. Store failures surface as domain.ErrStoreUnavailable and are
// never coerced into an unauthenticated outcome.
func (uc *ResolveSession) Execute(ctx context.Context, rawToken string) (*domain.ResolvedIdentity, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := uc.codec.Verify(rawToken)
	if err != nil {
		uc.logger.DebugContext(ctx, "token verification failed", "error", err)
		return nil, domain.ErrUnauthenticated
	}

	// Cache hit: the entry is keyed by subject, so the tenant claim still
	// has to match before the identity can be trusted.
	if cached, found := uc.cache.Get(claims.SubjectID); found {
		if cached.TenantID != claims.TenantID {
			uc.logSecurityEvent(ctx, claims, cached.TenantID)
			return nil, domain.ErrUnauthenticated
		}
		return cached, nil
	}

	record, err := uc.store.FindIdentityByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			uc.logger.InfoContext(ctx, "subject no longer exists", "subject_id", claims.SubjectID)
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if record.TenantID != claims.TenantID {
		uc.logSecurityEvent(ctx, claims, record.TenantID)
		return nil, domain.ErrUnauthenticated
	}

	role := record.EffectiveRole()
	profile, err := uc.hydrateProfile(ctx, role, claims.SubjectID, claims.TenantID)
	if err != nil {
		return nil, err
	}

	identity := &domain.ResolvedIdentity{
		SubjectID:  record.ID,
		Surname:    record.Surname,
		FirstName:  record.FirstName,
		OtherNames: record.OtherNames,
		Email:      record.Email,
		Role:       role,
		TenantID:   record.TenantID,
		Tenant:     record.Tenant,
		ResolvedAt: time.Now(),
		Profile:    profile,
	}

	uc.cache.Set(identity.SubjectID, identity)
	return identity, nil
}

// hydrateProfile fetches the profile for the role's partition. Exactly one
// of the two store lookups runs, neither for the OTHER partition. A subject
// without an application yet resolves to an empty profile, not an error.
func (uc *ResolveSession) hydrateProfile(ctx context.Context, role domain.Role, subjectID, tenantID uuid.UUID) (domain.RoleProfile, error) {
	switch role.Partition() {
	case domain.PartitionStudent:
		profile, err := uc.store.FindLatestAdmission(ctx, subjectID, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return &domain.StudentProfile{}, nil
			}
			return nil, err
		}
		return profile, nil

	case domain.PartitionStaff:
		profile, err := uc.store.FindLatestStaffApplication(ctx, subjectID, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return &domain.StaffProfile{}, nil
			}
			return nil, err
		}
		return profile, nil

	default:
		return nil, nil
	}
}

// Invalidate evicts the subject's cached identity. Collaborators that mutate
// identity or profile records call this after every write.
func (uc *ResolveSession) Invalidate(subjectID uuid.UUID) {
	uc.cache.Invalidate(subjectID)
}

func (uc *ResolveSession) logSecurityEvent(ctx context.Context, claims *domain.SessionClaims, actualTenantID uuid.UUID) {
	uc.logger.WarnContext(ctx, "tenant mismatch on session resolution",
		"security_event", "TENANT_MISMATCH",
		"subject_id", claims.SubjectID,
		"token_tenant_id", claims.TenantID,
		"record_tenant_id", actualTenantID,
		"error", fmt.Sprintf("%v", domain.ErrTenantMismatch))
}
