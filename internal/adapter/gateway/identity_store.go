package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"skuunup-auth/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IdentityStore resolves subjects against the school database.
// Implements domain.IdentityStore.
type IdentityStore struct {
	db     DatabaseIface
	logger *slog.Logger
	tracer trace.Tracer
}

// NewIdentityStore creates a PostgreSQL-backed identity store.
func NewIdentityStore(db DatabaseIface, logger *slog.Logger) *IdentityStore {
	return &IdentityStore{
		db:     db,
		logger: logger.With("component", "identity_store"),
		tracer: otel.Tracer("identity-store"),
	}
}

const findIdentityQuery = `
	SELECT u.id, u.surname, u.first_name, u.other_names, u.email, u.role, u.position,
	       s.id, s.name, s.domain
	FROM users u
	JOIN schools s ON s.id = u.school_id
	WHERE u.id = $1 AND u.deleted_at IS NULL`

// FindIdentityByID resolves a subject id to its identity record and tenant.
func (s *IdentityStore) FindIdentityByID(ctx context.Context, subjectID uuid.UUID) (*domain.IdentityRecord, error) {
	ctx, span := s.tracer.Start(ctx, "identity_store.find_identity_by_id",
		trace.WithAttributes(attribute.String("subject_id", subjectID.String())))
	defer span.End()

	var record domain.IdentityRecord
	err := s.db.QueryRow(ctx, findIdentityQuery, subjectID).Scan(
		&record.ID,
		&record.Surname,
		&record.FirstName,
		&record.OtherNames,
		&record.Email,
		&record.Role,
		&record.Position,
		&record.Tenant.ID,
		&record.Tenant.Name,
		&record.Tenant.Domain,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		span.RecordError(err)
		s.logger.Error("failed to fetch identity", "subject_id", subjectID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	record.TenantID = record.Tenant.ID
	return &record, nil
}

const findLatestAdmissionQuery = `
	SELECT a.id,
	       COALESCE(array_agg(DISTINCT ps.id) FILTER (WHERE ps.id IS NOT NULL), '{}'),
	       COALESCE(array_agg(DISTINCT fm.id) FILTER (WHERE fm.id IS NOT NULL), '{}')
	FROM admission_applications a
	LEFT JOIN prior_schools ps ON ps.application_id = a.id
	LEFT JOIN family_members fm ON fm.application_id = a.id
	WHERE a.student_id = $1 AND a.school_id = $2
	GROUP BY a.id, a.submitted_at
	ORDER BY a.submitted_at DESC
	LIMIT 1`

// FindLatestAdmission fetches the student's most recent admission
// application scoped to (subjectID, tenantID).
func (s *IdentityStore) FindLatestAdmission(ctx context.Context, subjectID, tenantID uuid.UUID) (*domain.StudentProfile, error) {
	ctx, span := s.tracer.Start(ctx, "identity_store.find_latest_admission",
		trace.WithAttributes(
			attribute.String("subject_id", subjectID.String()),
			attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	var profile domain.StudentProfile
	var applicationID uuid.UUID
	err := s.db.QueryRow(ctx, findLatestAdmissionQuery, subjectID, tenantID).Scan(
		&applicationID,
		&profile.PriorSchoolIDs,
		&profile.FamilyMemberIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		span.RecordError(err)
		s.logger.Error("failed to fetch admission application",
			"subject_id", subjectID, "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	profile.AdmissionApplicationID = &applicationID
	return &profile, nil
}

const findLatestStaffApplicationQuery = `
	SELECT a.id,
	       COALESCE(array_agg(DISTINCT pj.id) FILTER (WHERE pj.id IS NOT NULL), '{}'),
	       COALESCE(array_agg(DISTINCT sub.id) FILTER (WHERE sub.id IS NOT NULL), '{}')
	FROM position_applications a
	LEFT JOIN prior_jobs pj ON pj.application_id = a.id
	LEFT JOIN application_subjects sub ON sub.application_id = a.id
	WHERE a.staff_id = $1 AND a.school_id = $2
	GROUP BY a.id, a.submitted_at
	ORDER BY a.submitted_at DESC
	LIMIT 1`

// FindLatestStaffApplication fetches the staff member's most recent position
// application scoped to (subjectID, tenantID).
func (s *IdentityStore) FindLatestStaffApplication(ctx context.Context, subjectID, tenantID uuid.UUID) (*domain.StaffProfile, error) {
	ctx, span := s.tracer.Start(ctx, "identity_store.find_latest_staff_application",
		trace.WithAttributes(
			attribute.String("subject_id", subjectID.String()),
			attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	var profile domain.StaffProfile
	var applicationID uuid.UUID
	err := s.db.QueryRow(ctx, findLatestStaffApplicationQuery, subjectID, tenantID).Scan(
		&applicationID,
		&profile.PriorJobIDs,
		&profile.SubjectIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		span.RecordError(err)
		s.logger.Error("failed to fetch position application",
			"subject_id", subjectID, "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	profile.PositionApplicationID = &applicationID
	return &profile, nil
}

// HealthCheck pings the underlying database.
func (s *IdentityStore) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}
