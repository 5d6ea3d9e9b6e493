package handler

import (
	"net/http"

	"skuunup-auth/config"
	"skuunup-auth/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InternalHandler serves the service-to-service endpoints the CRUD tier
// calls: session issuance after a verified login, and cache invalidation
// after identity or profile writes.
type InternalHandler struct {
	issue    *usecase.IssueSession
	resolve  *usecase.ResolveSession
	cfg      *config.Config
	validate *validator.Validate
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(issue *usecase.IssueSession, resolve *usecase.ResolveSession, cfg *config.Config) *InternalHandler {
	return &InternalHandler{
		issue:    issue,
		resolve:  resolve,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// issueSessionRequest is the POST /internal/sessions payload.
type issueSessionRequest struct {
	SubjectID string `json:"subjectId" validate:"required,uuid"`
}

// issueSessionResponse carries the signed token back to the caller. The
// handler also sets the session cookie for browser-facing flows.
type issueSessionResponse struct {
	OK       bool   `json:"ok"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	TenantID string `json:"tenantId"`
}

// IssueSession processes POST /internal/sessions.
func (h *InternalHandler) IssueSession(c echo.Context) error {
	var req issueSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "subjectId must be a valid uuid")
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "subjectId must be a valid uuid")
	}

	result, err := h.issue.Execute(c.Request().Context(), subjectID)
	if err != nil {
		return mapDomainError(err)
	}

	c.SetCookie(newSessionCookie(h.cfg, result.Token, h.cfg.TokenTTL))

	return c.JSON(http.StatusCreated, issueSessionResponse{
		OK:       true,
		Token:    result.Token,
		Role:     string(result.Role),
		TenantID: result.TenantID.String(),
	})
}

// InvalidateSession processes DELETE /internal/sessions/:subjectId — the
// eviction hook collaborators call after mutating identity or profile
// records.
func (h *InternalHandler) InvalidateSession(c echo.Context) error {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "subjectId must be a valid uuid")
	}

	h.resolve.Invalidate(subjectID)
	return c.NoContent(http.StatusNoContent)
}
