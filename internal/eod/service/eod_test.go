package service

import (
	"context"
	"strings"
	"testing"
	"time"

	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/internal/eod/events"
	"github.com/looply/looply-backend/internal/eod/repository"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
	"github.com/looply/looply-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 12:00 in New York
var fixedNow = time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *EODService
	employees *companyrepo.EmployeeRepository
	events    *testutil.MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	pub := testutil.NewMockPublisher()

	companies := companyrepo.NewCompanyRepository(store)
	employees := companyrepo.NewEmployeeRepository(store)

	require.NoError(t, companies.Save(ctx, &companyrepo.Company{ID: "c1", Name: "Acme Inc", Timezone: "America/New_York"}))
	for _, e := range []*companyrepo.Employee{
		{ID: "e1", Name: "Sarah Johnson", CompanyID: "c1", IsActive: true},
		{ID: "e2", Name: "Emily Rodriguez", CompanyID: "c1", IsActive: true},
		{ID: "e3", Name: "James Wilson", CompanyID: "c1", IsActive: true},
		{ID: "e4", Name: "Michael Brown", CompanyID: "c1", IsActive: false},
	} {
		require.NoError(t, employees.Save(ctx, e))
	}

	svc := NewEODService(
		repository.NewReportRepository(store),
		companies,
		employees,
		events.NewReportEventPublisher(pub, logger.Nop()),
		logger.Nop(),
	).WithClock(func() time.Time { return fixedNow })

	return &fixture{svc: svc, employees: employees, events: pub}
}

func dayShift() []domain.WorkShift {
	return []domain.WorkShift{{StartTime: "08:00", EndTime: "16:00", BreakMinutes: 60, Description: "Regular shift"}}
}

func TestSaveDraft_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.svc.SaveDraft(ctx, "e1", "2024-01-15", SaveDraftInput{Summary: "first pass", Shifts: dayShift()})
	require.NoError(t, err)
	assert.Equal(t, "e1-2024-01-15", r.ID)
	assert.Equal(t, "c1", r.CompanyID)
	assert.Equal(t, domain.StatusDraft, r.Status)
	assert.InDelta(t, 7.0, r.TotalHours, 1e-9)
	assert.NotEmpty(t, r.Shifts[0].ID)
	created := r.CreatedAt

	r, err = f.svc.SaveDraft(ctx, "e1", "2024-01-15", SaveDraftInput{
		Summary: "second pass",
		Shifts:  []domain.WorkShift{{StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30}},
	})
	require.NoError(t, err)
	assert.Equal(t, "second pass", r.Summary)
	assert.InDelta(t, 7.5, r.TotalHours, 1e-9)
	assert.Equal(t, created, r.CreatedAt)

	list, err := f.svc.ListReports(ctx, "c1", domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "saving twice must not duplicate")

	assert.Equal(t, []string{messaging.EventReportSaved, messaging.EventReportSaved}, f.events.Types())
}

func TestSaveDraft_InvalidTime(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SaveDraft(context.Background(), "e1", "2024-01-15", SaveDraftInput{
		Shifts: []domain.WorkShift{{StartTime: "9", EndTime: "17:00"}},
	})
	assert.True(t, errors.Is(err, errors.ErrInvalidTimeFormat))
	f.events.AssertNoEventsPublished(t)
}

func TestSaveDraft_InactiveEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SaveDraft(context.Background(), "e4", "2024-01-15", SaveDraftInput{Shifts: dayShift()})
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestSubmitReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.SubmitReport(ctx, "e1", "2024-01-15")
	assert.True(t, errors.Is(err, errors.ErrReportNotFound), "submit without a draft")

	_, err = f.svc.SaveDraft(ctx, "e1", "2024-01-15", SaveDraftInput{Summary: "done", Shifts: dayShift()})
	require.NoError(t, err)

	r, err := f.svc.SubmitReport(ctx, "e1", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, r.Status)
	require.NotNil(t, r.SubmittedAt)
	assert.True(t, fixedNow.Equal(*r.SubmittedAt))
	f.events.AssertEventPublished(t, messaging.EventReportSubmitted)

	_, err = f.svc.SubmitReport(ctx, "e1", "2024-01-15")
	assert.True(t, errors.Is(err, errors.ErrConflict))

	_, err = f.svc.SaveDraft(ctx, "e1", "2024-01-15", SaveDraftInput{Summary: "edit"})
	assert.True(t, errors.Is(err, errors.ErrConflict), "submitted reports are final")

	got, err := f.svc.GetReport(ctx, "e1", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "done", got.Summary)
}

func TestDashboardStats_UsesCompanyToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submit := func(employeeID, date string, shifts []domain.WorkShift) {
		_, err := f.svc.SaveDraft(ctx, employeeID, date, SaveDraftInput{Shifts: shifts})
		require.NoError(t, err)
		_, err = f.svc.SubmitReport(ctx, employeeID, date)
		require.NoError(t, err)
	}

	submit("e1", "2024-01-15", dayShift())
	submit("e2", "2024-01-15", []domain.WorkShift{{StartTime: "09:00", EndTime: "15:00"}})
	submit("e3", "2024-01-14", dayShift())
	_, err := f.svc.SaveDraft(ctx, "e3", "2024-01-15", SaveDraftInput{Shifts: dayShift()})
	require.NoError(t, err)

	stats, err := f.svc.DashboardStats(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSubmissions)
	assert.Equal(t, 3, stats.ActiveEmployees)
	assert.Equal(t, 1, stats.PendingEODs)
	assert.InDelta(t, 6.5, stats.AverageHours, 1e-9)

	pending, err := f.svc.PendingEmployees(ctx, "c1", "2024-01-15")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e3", pending[0].ID)
}

func TestDashboardStats_UnknownCompany(t *testing.T) {
	_, err := newFixture(t).svc.DashboardStats(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.SaveDraft(ctx, "e1", "2024-01-14", SaveDraftInput{Summary: `He said "hi"`, Shifts: dayShift()})
	require.NoError(t, err)
	_, err = f.svc.SaveDraft(ctx, "e2", "2024-01-15", SaveDraftInput{Summary: "ok"})
	require.NoError(t, err)
	require.NoError(t, f.employees.Delete(ctx, "e2"))

	out, err := f.svc.ExportCSV(ctx, "c1", domain.Filter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, domain.CSVHeader, lines[0])
	assert.Equal(t, `2024-01-15,"Unknown",0.00,"","ok",draft`, lines[1])
	assert.Equal(t, `2024-01-14,"Sarah Johnson",7.00,"08:00-16:00 (60min break) - Regular shift","He said ""hi""",draft`, lines[2])

	empty, err := f.svc.ExportCSV(ctx, "c1", domain.Filter{StartDate: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, domain.CSVHeader+"\n", empty)
}
