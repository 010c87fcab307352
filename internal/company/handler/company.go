package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authservice "github.com/looply/looply-backend/internal/auth/service"
	"github.com/looply/looply-backend/internal/company/service"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/httputil"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/tenant"
)

// TokenRefresher issues a token reflecting the employer's new company
type TokenRefresher interface {
	RefreshForEmail(ctx context.Context, email string) (*authservice.AuthResponse, error)
}

// CompanyHandler handles company and roster endpoints
type CompanyHandler struct {
	service *service.CompanyService
	tokens  TokenRefresher
	logger  *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(svc *service.CompanyService, tokens TokenRefresher, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: svc,
		tokens:  tokens,
		logger:  log,
	}
}

// Create creates the caller's company and returns it with a refreshed token
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := tenant.CompanyID(r.Context()); err == nil {
		httputil.Error(w, errors.Conflict("account already owns a company"))
		return
	}

	var req service.CreateCompanyInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	email := httputil.GetUserEmail(r.Context())
	company, err := h.service.CreateCompany(r.Context(), httputil.GetUserID(r.Context()), email, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	auth, err := h.tokens.RefreshForEmail(r.Context(), email)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, map[string]interface{}{
		"company": company,
		"auth":    auth,
	})
}

// Get returns the caller's company
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	company, err := h.service.GetCompany(r.Context(), companyID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, company)
}

// ListEmployees lists the roster
func (h *CompanyHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	employees, err := h.service.ListEmployees(r.Context(), companyID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, employees, &httputil.Meta{Total: len(employees)})
}

// AddEmployee adds an employee and returns their access code
func (h *CompanyHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.AddEmployeeInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.AddEmployee(r.Context(), companyID, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, emp)
}

// SetActive toggles whether an employee counts toward the dashboard
func (h *CompanyHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.SetEmployeeActive(r.Context(), companyID, chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// RemoveEmployee deletes an employee
func (h *CompanyHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.RemoveEmployee(r.Context(), companyID, chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

func companyFromContext(r *http.Request) (string, error) {
	id, err := tenant.CompanyID(r.Context())
	if err != nil {
		return "", errors.Forbidden("create a company first")
	}
	return id, nil
}
