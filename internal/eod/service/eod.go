package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/internal/eod/events"
	"github.com/looply/looply-backend/internal/eod/repository"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/logger"
)

// SaveDraftInput is the editable part of a report
type SaveDraftInput struct {
	Summary string             `json:"summary" validate:"max=10000"`
	Shifts  []domain.WorkShift `json:"shifts" validate:"dive"`
}

// EODService handles the report lifecycle and company-wide reporting
type EODService struct {
	reports   *repository.ReportRepository
	companies *companyrepo.CompanyRepository
	employees *companyrepo.EmployeeRepository
	publisher *events.ReportEventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewEODService creates a new EOD service
func NewEODService(
	reports *repository.ReportRepository,
	companies *companyrepo.CompanyRepository,
	employees *companyrepo.EmployeeRepository,
	publisher *events.ReportEventPublisher,
	log *logger.Logger,
) *EODService {
	return &EODService{
		reports:   reports,
		companies: companies,
		employees: employees,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock replaces the time source
func (s *EODService) WithClock(now func() time.Time) *EODService {
	s.now = now
	return s
}

// SaveDraft creates the employee's report for date or updates the existing draft.
// Hours are recomputed from the shifts; a submitted report can no longer change.
func (s *EODService) SaveDraft(ctx context.Context, employeeID, date string, in SaveDraftInput) (*domain.Report, error) {
	emp, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	hours, err := domain.ComputeHours(in.Shifts)
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.WorkShift, len(in.Shifts))
	copy(shifts, in.Shifts)
	for i := range shifts {
		if shifts[i].ID == "" {
			shifts[i].ID = uuid.New().String()
		}
	}

	now := s.now().UTC()
	report, err := s.reports.Get(ctx, employeeID, date)
	switch {
	case errors.Is(err, errors.ErrReportNotFound):
		report = &domain.Report{
			EmployeeID: employeeID,
			CompanyID:  emp.CompanyID,
			Date:       date,
			Status:     domain.StatusDraft,
			CreatedAt:  now,
		}
	case err != nil:
		return nil, err
	case report.Status == domain.StatusSubmitted:
		return nil, errors.Conflict("report has already been submitted")
	}

	report.Summary = strings.TrimSpace(in.Summary)
	report.Shifts = shifts
	report.TotalHours = hours
	report.HoursWorked = 0
	report.UpdatedAt = now

	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.publisher.PublishReportSaved(ctx, report)
	return report, nil
}

// SubmitReport moves the saved draft for (employee, date) to submitted
func (s *EODService) SubmitReport(ctx context.Context, employeeID, date string) (*domain.Report, error) {
	if _, err := s.activeEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	report, err := s.reports.Get(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	if report.Status == domain.StatusSubmitted {
		return nil, errors.Conflict("report has already been submitted")
	}

	now := s.now().UTC()
	report.Status = domain.StatusSubmitted
	report.SubmittedAt = &now
	report.UpdatedAt = now
	report.TotalHours = domain.ReportHours(report)

	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Str("company_id", report.CompanyID).
		Float64("hours", report.TotalHours).
		Msg("report submitted")

	s.publisher.PublishReportSubmitted(ctx, report)
	return report, nil
}

// GetReport returns the report of an employee for a date
func (s *EODService) GetReport(ctx context.Context, employeeID, date string) (*domain.Report, error) {
	return s.reports.Get(ctx, employeeID, date)
}

// ListReports returns a company's reports matching filter, newest first
func (s *EODService) ListReports(ctx context.Context, companyID string, filter domain.Filter) ([]*domain.Report, error) {
	return s.reports.ListByCompany(ctx, companyID, filter)
}

// Today is the current date in the company's timezone
func (s *EODService) Today(ctx context.Context, companyID string) (string, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	return company.Today(s.now()), nil
}

// DashboardStats computes today's numbers for a company
func (s *EODService) DashboardStats(ctx context.Context, companyID string) (*domain.DashboardStats, error) {
	today, err := s.Today(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.StatsForDate(ctx, companyID, today)
}

// StatsForDate computes the dashboard numbers for any date
func (s *EODService) StatsForDate(ctx context.Context, companyID, date string) (*domain.DashboardStats, error) {
	active, err := s.employees.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByCompany(ctx, companyID, domain.Filter{StartDate: date, EndDate: date})
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeStats(reports, active, date)
	return &stats, nil
}

// ExportCSV renders the company's reports matching filter as CSV
func (s *EODService) ExportCSV(ctx context.Context, companyID string, filter domain.Filter) (string, error) {
	reports, err := s.reports.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return "", err
	}

	employees, err := s.employees.ListByCompany(ctx, companyID)
	if err != nil {
		return "", err
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	return domain.ToCSV(reports, func(id string) (string, bool) {
		n, ok := names[id]
		return n, ok
	}), nil
}

// PendingEmployees lists active employees without a submitted report for date
func (s *EODService) PendingEmployees(ctx context.Context, companyID, date string) ([]*companyrepo.Employee, error) {
	employees, err := s.employees.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByCompany(ctx, companyID, domain.Filter{
		StartDate: date,
		EndDate:   date,
		Status:    domain.StatusSubmitted,
	})
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(reports))
	for _, r := range reports {
		done[r.EmployeeID] = true
	}

	var pending []*companyrepo.Employee
	for _, e := range employees {
		if e.IsActive && !done[e.ID] {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (s *EODService) activeEmployee(ctx context.Context, employeeID string) (*companyrepo.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, errors.Forbidden("employee is inactive")
	}
	return emp, nil
}
