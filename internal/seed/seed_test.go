package seed

import (
	"context"
	"testing"
	"time"

	authrepo "github.com/looply/looply-backend/internal/auth/repository"
	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/internal/eod/domain"
	eodrepo "github.com/looply/looply-backend/internal/eod/repository"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	seeder    *Seeder
	users     *authrepo.UserRepository
	employees *companyrepo.EmployeeRepository
	reports   *eodrepo.ReportRepository
}

func newFixture() *fixture {
	store := kvstore.NewMemoryStore()
	f := &fixture{
		users:     authrepo.NewUserRepository(store),
		employees: companyrepo.NewEmployeeRepository(store),
		reports:   eodrepo.NewReportRepository(store),
	}
	f.seeder = NewSeeder(f.users, companyrepo.NewCompanyRepository(store), f.employees, f.reports, logger.Nop()).
		WithClock(func() time.Time { return time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC) })
	f.seeder.bcryptCost = bcrypt.MinCost
	return f
}

func TestSeed_EmployerMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.seeder.Seed(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Employees)
	assert.Equal(t, 24, res.Reports)
	assert.Equal(t, "TEST1000", res.AccessCodes["Sarah Johnson"])
	assert.Equal(t, "TEST1009", res.AccessCodes["Kevin Thomas"])

	user, err := f.users.GetByEmail(ctx, EmployerEmail)
	require.NoError(t, err)
	assert.Equal(t, CompanyID, user.CompanyID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)))

	today, err := f.reports.ListByCompany(ctx, CompanyID, domain.Filter{StartDate: "2024-01-15", EndDate: "2024-01-15"})
	require.NoError(t, err)
	require.Len(t, today, 3)
	stats := domain.ComputeStats(today, 10, "2024-01-15")
	assert.Equal(t, 7, stats.PendingEODs)
	assert.InDelta(t, 7.0, stats.AverageHours, 1e-9)
}

func TestSeed_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.seeder.Seed(ctx, Options{EmployeeMode: true})
	require.NoError(t, err)
	_, err = f.seeder.Seed(ctx, Options{})
	require.NoError(t, err)

	emps, err := f.employees.ListByCompany(ctx, CompanyID)
	require.NoError(t, err)
	assert.Len(t, emps, 10, "demo employee from the first run is removed")

	all, err := f.reports.ListByCompany(ctx, CompanyID, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 24)
}

func TestSeed_EmployeeMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.seeder.Seed(ctx, Options{EmployeeMode: true})
	require.NoError(t, err)
	assert.Equal(t, 11, res.Employees)
	assert.Equal(t, 24+15, res.Reports)

	emp, err := f.employees.FindByAccessCode(ctx, DemoCode)
	require.NoError(t, err)
	assert.Equal(t, DemoEmployee, emp.ID)

	draft, err := f.reports.Get(ctx, DemoEmployee, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, draft.Status)
	assert.InDelta(t, 3.75, draft.TotalHours, 1e-9)
	assert.Nil(t, draft.SubmittedAt)

	night, err := f.reports.Get(ctx, DemoEmployee, "2024-01-11")
	require.NoError(t, err)
	assert.Equal(t, "Night shift", night.Shifts[0].Description)
	assert.InDelta(t, 7.5, night.TotalHours, 1e-9)

	split, err := f.reports.Get(ctx, DemoEmployee, "2024-01-12")
	require.NoError(t, err)
	require.Len(t, split.Shifts, 2)
	assert.InDelta(t, 6.75, split.TotalHours, 1e-9)

	history, err := f.reports.ListByCompany(ctx, CompanyID, domain.Filter{EmployeeID: DemoEmployee})
	require.NoError(t, err)
	require.Len(t, history, 15)
	assert.Equal(t, "2024-01-15", history[0].Date)
	assert.Equal(t, "2024-01-01", history[14].Date)
}
