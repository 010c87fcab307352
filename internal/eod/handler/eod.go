package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/internal/eod/service"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/httputil"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/tenant"
)

// EODHandler handles report endpoints for employers and employees
type EODHandler struct {
	service *service.EODService
	logger  *logger.Logger
}

// NewEODHandler creates a new EOD handler
func NewEODHandler(svc *service.EODService, log *logger.Logger) *EODHandler {
	return &EODHandler{
		service: svc,
		logger:  log,
	}
}

// ListReports lists the company's reports (employer)
func (h *EODHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	reports, err := h.service.ListReports(r.Context(), companyID, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, reports, &httputil.Meta{Total: len(reports)})
}

// Export downloads the company's reports as CSV (employer)
func (h *EODHandler) Export(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	csv, err := h.service.ExportCSV(r.Context(), companyID, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	today, err := h.service.Today(r.Context(), companyID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.CSV(w, fmt.Sprintf("eod-reports-%s.csv", today), csv)
}

// Stats returns dashboard numbers for today, or for ?date= (employer)
func (h *EODHandler) Stats(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var stats *domain.DashboardStats
	if date := r.URL.Query().Get("date"); date != "" {
		if err := httputil.ValidateVar("date", date, "isodate"); err != nil {
			httputil.Error(w, err)
			return
		}
		stats, err = h.service.StatsForDate(r.Context(), companyID, date)
	} else {
		stats, err = h.service.DashboardStats(r.Context(), companyID)
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

// MyReports lists the caller's own reports (employee)
func (h *EODHandler) MyReports(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyFromContext(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	filter.EmployeeID = httputil.GetUserID(r.Context())

	reports, err := h.service.ListReports(r.Context(), companyID, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, reports, &httputil.Meta{Total: len(reports)})
}

// GetMyReport returns the caller's report for {date} (employee)
func (h *EODHandler) GetMyReport(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.GetReport(r.Context(), httputil.GetUserID(r.Context()), date)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// SaveMyReport saves the caller's draft for {date} (employee)
func (h *EODHandler) SaveMyReport(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.SaveDraftInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.SaveDraft(r.Context(), httputil.GetUserID(r.Context()), date, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// SubmitMyReport submits the caller's saved draft for {date} (employee)
func (h *EODHandler) SubmitMyReport(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.SubmitReport(r.Context(), httputil.GetUserID(r.Context()), date)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

func dateParam(r *http.Request) (string, error) {
	date := chi.URLParam(r, "date")
	if err := httputil.ValidateVar("date", date, "isodate"); err != nil {
		return "", err
	}
	return date, nil
}

func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	f := domain.Filter{
		EmployeeID: q.Get("employeeId"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Status:     domain.Status(q.Get("status")),
	}

	if f.StartDate != "" {
		if err := httputil.ValidateVar("startDate", f.StartDate, "isodate"); err != nil {
			return f, err
		}
	}
	if f.EndDate != "" {
		if err := httputil.ValidateVar("endDate", f.EndDate, "isodate"); err != nil {
			return f, err
		}
	}
	if f.Status != "" && f.Status != domain.StatusDraft && f.Status != domain.StatusSubmitted {
		return f, errors.Validation(map[string]string{"status": "must be one of: draft submitted"})
	}
	return f, nil
}

func companyFromContext(r *http.Request) (string, error) {
	id, err := tenant.CompanyID(r.Context())
	if err != nil {
		return "", errors.Forbidden("create a company first")
	}
	return id, nil
}
