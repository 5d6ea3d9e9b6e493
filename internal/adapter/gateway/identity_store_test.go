package gateway

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"skuunup-auth/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdentityStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return NewIdentityStore(mockDB, slog.Default()), mockDB
}

func TestIdentityStore_FindIdentityByID(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	tenantID := uuid.New()
	position := "Head of Department"

	mockDB.ExpectQuery("SELECT u.id, u.surname").
		WithArgs(subjectID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "surname", "first_name", "other_names", "email", "role", "position",
			"school_id", "school_name", "school_domain",
		}).AddRow(
			subjectID, "Owusu", "Kwame", nil, "kwame@highridge.example",
			domain.RoleTeacher, &position,
			tenantID, "Highridge Academy", "highridge.example",
		))

	record, err := store.FindIdentityByID(context.Background(), subjectID)
	require.NoError(t, err)
	assert.Equal(t, subjectID, record.ID)
	assert.Equal(t, "Owusu", record.Surname)
	assert.Equal(t, domain.RoleTeacher, record.Role)
	require.NotNil(t, record.Position)
	assert.Equal(t, "Head of Department", *record.Position)
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, tenantID, record.Tenant.ID)
	assert.Equal(t, "Highridge Academy", record.Tenant.Name)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestIdentityStore_FindIdentityByID_NotFound(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	mockDB.ExpectQuery("SELECT u.id, u.surname").
		WithArgs(subjectID).
		WillReturnError(pgx.ErrNoRows)

	record, err := store.FindIdentityByID(context.Background(), subjectID)
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))
}

func TestIdentityStore_FindIdentityByID_StoreFailure(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	mockDB.ExpectQuery("SELECT u.id, u.surname").
		WithArgs(subjectID).
		WillReturnError(errors.New("connection refused"))

	record, err := store.FindIdentityByID(context.Background(), subjectID)
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestIdentityStore_FindLatestAdmission(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	tenantID := uuid.New()
	applicationID := uuid.New()
	priorSchools := []uuid.UUID{uuid.New(), uuid.New()}
	familyMembers := []uuid.UUID{uuid.New()}

	mockDB.ExpectQuery("FROM admission_applications").
		WithArgs(subjectID, tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "prior_schools", "family_members"}).
			AddRow(applicationID, priorSchools, familyMembers))

	profile, err := store.FindLatestAdmission(context.Background(), subjectID, tenantID)
	require.NoError(t, err)
	require.NotNil(t, profile.AdmissionApplicationID)
	assert.Equal(t, applicationID, *profile.AdmissionApplicationID)
	assert.Equal(t, priorSchools, profile.PriorSchoolIDs)
	assert.Equal(t, familyMembers, profile.FamilyMemberIDs)
}

func TestIdentityStore_FindLatestAdmission_NoApplication(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	tenantID := uuid.New()
	mockDB.ExpectQuery("FROM admission_applications").
		WithArgs(subjectID, tenantID).
		WillReturnError(pgx.ErrNoRows)

	profile, err := store.FindLatestAdmission(context.Background(), subjectID, tenantID)
	assert.Nil(t, profile)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))
}

func TestIdentityStore_FindLatestStaffApplication(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	tenantID := uuid.New()
	applicationID := uuid.New()
	priorJobs := []uuid.UUID{uuid.New()}
	subjects := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	mockDB.ExpectQuery("FROM position_applications").
		WithArgs(subjectID, tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "prior_jobs", "subjects"}).
			AddRow(applicationID, priorJobs, subjects))

	profile, err := store.FindLatestStaffApplication(context.Background(), subjectID, tenantID)
	require.NoError(t, err)
	require.NotNil(t, profile.PositionApplicationID)
	assert.Equal(t, applicationID, *profile.PositionApplicationID)
	assert.Equal(t, priorJobs, profile.PriorJobIDs)
	assert.Equal(t, subjects, profile.SubjectIDs)
}

func TestIdentityStore_FindLatestStaffApplication_StoreFailure(t *testing.T) {
	store, mockDB := newTestStore(t)

	subjectID := uuid.New()
	tenantID := uuid.New()
	mockDB.ExpectQuery("FROM position_applications").
		WithArgs(subjectID, tenantID).
		WillReturnError(errors.New("timeout"))

	profile, err := store.FindLatestStaffApplication(context.Background(), subjectID, tenantID)
	assert.Nil(t, profile)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
