package usecase

import (
	"context"
	"log/slog"
	"time"

	"skuunup-auth/internal/domain"

	"github.com/google/uuid"
)

// IssueResult holds the data returned by IssueSession.
type IssueResult struct {
	Token     string
	SubjectID uuid.UUID
	Role      domain.Role
	TenantID  uuid.UUID
	IssuedAt  time.Time
}

// IssueSession signs a session token for a subject. The CRUD tier calls
// this after it has verified credentials; credential checking itself lives
// outside this service.
type IssueSession struct {
	codec  domain.TokenCodec
	store  domain.IdentityStore
	logger *slog.Logger
}

// NewIssueSession creates a new IssueSession usecase.
func NewIssueSession(codec domain.TokenCodec, store domain.IdentityStore, logger *slog.Logger) *IssueSession {
	return &IssueSession{codec: codec, store: store, logger: logger}
}

// Execute loads the subject's identity record and signs a token carrying its
// current role and tenant.
func (uc *IssueSession) Execute(ctx context.Context, subjectID uuid.UUID) (*IssueResult, error) {
	record, err := uc.store.FindIdentityByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	claims := domain.SessionClaims{
		SubjectID: record.ID,
		Role:      record.EffectiveRole(),
		TenantID:  record.TenantID,
	}

	signed, err := uc.codec.Sign(claims)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to sign session token",
			"subject_id", subjectID, "error", err)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "session issued",
		"subject_id", record.ID,
		"tenant_id", record.TenantID,
		"role", claims.Role)

	return &IssueResult{
		Token:     signed,
		SubjectID: record.ID,
		Role:      claims.Role,
		TenantID:  record.TenantID,
		IssuedAt:  time.Now(),
	}, nil
}
