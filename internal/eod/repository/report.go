package repository

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
)

const reportPrefix = "eod:"

// ReportRepository stores reports under eod:<employeeId>-<date>
type ReportRepository struct {
	store kvstore.Store
}

// NewReportRepository creates a new report repository
func NewReportRepository(store kvstore.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

func reportKey(employeeID, date string) string {
	return reportPrefix + domain.ReportID(employeeID, date)
}

// Save upserts a report by its (employee, date) identity
func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	report.ID = domain.ReportID(report.EmployeeID, report.Date)
	return kvstore.SetJSON(ctx, r.store, reportKey(report.EmployeeID, report.Date), report)
}

// Get returns the report for an employee on a date
func (r *ReportRepository) Get(ctx context.Context, employeeID, date string) (*domain.Report, error) {
	report, err := kvstore.GetJSON[domain.Report](ctx, r.store, reportKey(employeeID, date))
	if stderrors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.ReportNotFound(employeeID, date)
	}
	return report, err
}

// ListByCompany returns the company's reports matching filter, newest first
func (r *ReportRepository) ListByCompany(ctx context.Context, companyID string, filter domain.Filter) ([]*domain.Report, error) {
	prefix := reportPrefix
	if filter.EmployeeID != "" {
		prefix = reportPrefix + filter.EmployeeID + "-"
	}

	all, err := kvstore.ScanJSON[domain.Report](ctx, r.store, prefix)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Report, 0, len(all))
	for _, report := range all {
		if report.CompanyID == companyID && filter.Match(report) {
			out = append(out, report)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// DeleteByEmployee removes every report of an employee
func (r *ReportRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	entries, err := r.store.ScanByPrefix(ctx, reportPrefix+employeeID+"-")
	if err != nil {
		return err
	}

	for _, e := range entries {
		report, err := kvstore.GetJSON[domain.Report](ctx, r.store, e.Key)
		if err != nil || report.EmployeeID != employeeID {
			continue
		}
		if err := r.store.Remove(ctx, e.Key); err != nil {
			return err
		}
	}
	return nil
}
