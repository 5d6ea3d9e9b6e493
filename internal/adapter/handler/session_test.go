package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skuunup-auth/config"
	"skuunup-auth/internal/domain"
	"skuunup-auth/internal/infrastructure/cache"
	"skuunup-auth/internal/infrastructure/token"
	"skuunup-auth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

// mockStore implements domain.IdentityStore for handler tests.
type mockStore struct {
	record    *domain.IdentityRecord
	recordErr error

	admission    *domain.StudentProfile
	admissionErr error

	staffApp *domain.StaffProfile
	staffErr error
}

func (m *mockStore) FindIdentityByID(_ context.Context, _ uuid.UUID) (*domain.IdentityRecord, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	return m.record, nil
}

func (m *mockStore) FindLatestAdmission(_ context.Context, _, _ uuid.UUID) (*domain.StudentProfile, error) {
	if m.admissionErr != nil {
		return nil, m.admissionErr
	}
	return m.admission, nil
}

func (m *mockStore) FindLatestStaffApplication(_ context.Context, _, _ uuid.UUID) (*domain.StaffProfile, error) {
	if m.staffErr != nil {
		return nil, m.staffErr
	}
	return m.staffApp, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "8990",
		LogLevel:      "error",
		TokenSecret:   testSecret,
		TokenIssuer:   "skuunup-auth",
		TokenAudience: "skuunup-app",
		TokenTTL:      time.Hour,
		CacheTTL:      5 * time.Second,
		CookieName:    "skuunup_session",
	}
}

func testCodec(cfg *config.Config) *token.JWTCodec {
	return token.NewJWTCodec(token.JWTConfig{
		Secret:   cfg.TokenSecret,
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
		TTL:      cfg.TokenTTL,
	})
}

func newSessionHandler(t *testing.T, store *mockStore) (*SessionHandler, *token.JWTCodec, *config.Config) {
	t.Helper()
	cfg := testConfig()
	codec := testCodec(cfg)
	sessionCache := cache.NewSessionCache(cfg.CacheTTL)
	t.Cleanup(sessionCache.Stop)
	uc := usecase.NewResolveSession(codec, sessionCache, store, slog.Default())
	return NewSessionHandler(uc, cfg), codec, cfg
}

func signToken(t *testing.T, codec *token.JWTCodec, subjectID, tenantID uuid.UUID, role domain.Role) string {
	t.Helper()
	signed, err := codec.Sign(domain.SessionClaims{SubjectID: subjectID, Role: role, TenantID: tenantID})
	require.NoError(t, err)
	return signed
}

func TestSessionHandler_Resolve_NoCookie(t *testing.T) {
	h, _, _ := newSessionHandler(t, &mockStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	rec := httptest.NewRecorder()

	err := h.Resolve(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestSessionHandler_Resolve_ValidSession(t *testing.T) {
	subjectID := uuid.New()
	tenantID := uuid.New()
	applicationID := uuid.New()

	store := &mockStore{
		record: &domain.IdentityRecord{
			ID:        subjectID,
			Surname:   "Mensah",
			FirstName: "Akosua",
			Email:     "akosua@highridge.example",
			Role:      domain.RoleStudent,
			TenantID:  tenantID,
			Tenant:    domain.Tenant{ID: tenantID, Name: "Highridge Academy", Domain: "highridge.example"},
		},
		admission: &domain.StudentProfile{AdmissionApplicationID: &applicationID},
	}
	h, codec, cfg := newSessionHandler(t, store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(&http.Cookie{
		Name:  cfg.CookieName,
		Value: signToken(t, codec, subjectID, tenantID, domain.RoleStudent),
	})
	rec := httptest.NewRecorder()

	err := h.Resolve(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), subjectID.String())
	assert.Contains(t, rec.Body.String(), `"role":"STUDENT"`)
	assert.Contains(t, rec.Body.String(), applicationID.String())
}

func TestSessionHandler_Resolve_TamperedCookie(t *testing.T) {
	h, _, cfg := newSessionHandler(t, &mockStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-real-token"})
	rec := httptest.NewRecorder()

	err := h.Resolve(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestSessionHandler_Resolve_StoreOutage(t *testing.T) {
	subjectID := uuid.New()
	tenantID := uuid.New()

	store := &mockStore{recordErr: domain.ErrStoreUnavailable}
	h, codec, cfg := newSessionHandler(t, store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(&http.Cookie{
		Name:  cfg.CookieName,
		Value: signToken(t, codec, subjectID, tenantID, domain.RoleStudent),
	})
	rec := httptest.NewRecorder()

	err := h.Resolve(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code,
		"a store outage must stay distinguishable from an invalid session")
}

func TestSessionHandler_Logout_ClearsCookie(t *testing.T) {
	h, _, cfg := newSessionHandler(t, &mockStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/logout", nil)
	rec := httptest.NewRecorder()

	err := h.Logout(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cleared := cookies[0]
	assert.Equal(t, cfg.CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cleared.SameSite)
	assert.Equal(t, "/", cleared.Path)
}
