// Package seed loads the Acme Inc demo company.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	authrepo "github.com/looply/looply-backend/internal/auth/repository"
	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/internal/eod/domain"
	eodrepo "github.com/looply/looply-backend/internal/eod/repository"
	"github.com/looply/looply-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Demo identifiers
const (
	CompanyID     = "test-company"
	EmployerEmail = "amanda@example.com"
	DemoPassword  = "looply-demo"
	DemoEmployee  = "test-developer"
	DemoCode      = "DEMO1000"

	idPrefix    = "test-"
	historyDays = 7
	personalLog = 14
)

var roster = []struct {
	name, position, email string
}{
	{"Sarah Johnson", "Frontend Developer", "sarah@example.com"},
	{"Emily Rodriguez", "UX Designer", "emily@example.com"},
	{"James Wilson", "Backend Developer", "james@example.com"},
	{"Michael Brown", "Project Manager", "michael@example.com"},
	{"Jessica Taylor", "QA Engineer", "jessica@example.com"},
	{"David Martinez", "DevOps Engineer", "david@example.com"},
	{"Jennifer Garcia", "Product Manager", "jennifer@example.com"},
	{"Robert Miller", "Data Scientist", "robert@example.com"},
	{"Lisa Anderson", "Marketing Specialist", "lisa@example.com"},
	{"Kevin Thomas", "Sales Representative", "kevin@example.com"},
}

var personalSummaries = []string{
	"Worked on frontend components for the dashboard. Fixed responsive layout issues on mobile.",
	"Implemented API integration with backend services. Added error handling and loading states.",
	"Refactored CSS using Tailwind utilities. Improved button and form components.",
	"Created unit tests for core utilities. Fixed failing tests in CI pipeline.",
	"Participated in sprint planning and estimated upcoming tasks. Updated documentation.",
	"Collaborated with design team on new features. Built interactive prototypes.",
	"Code review and pair programming with junior devs. Knowledge sharing session.",
}

// Options selects what to load
type Options struct {
	// EmployeeMode adds a personal history and today's draft for the demo employee
	EmployeeMode bool
}

// Result summarizes a seed run
type Result struct {
	CompanyID   string
	Employees   int
	Reports     int
	AccessCodes map[string]string // employee name -> code
}

// Seeder writes demo data through the repositories
type Seeder struct {
	users      *authrepo.UserRepository
	companies  *companyrepo.CompanyRepository
	employees  *companyrepo.EmployeeRepository
	reports    *eodrepo.ReportRepository
	logger     *logger.Logger
	now        func() time.Time
	bcryptCost int
}

// NewSeeder creates a new seeder
func NewSeeder(
	users *authrepo.UserRepository,
	companies *companyrepo.CompanyRepository,
	employees *companyrepo.EmployeeRepository,
	reports *eodrepo.ReportRepository,
	log *logger.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		companies:  companies,
		employees:  employees,
		reports:    reports,
		logger:     log,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithClock replaces the time source
func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	s.now = now
	return s
}

// Seed removes previous demo employees and their reports, then loads a fresh set.
// Running it twice leaves the same data behind.
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Result, error) {
	now := s.now().UTC()

	company := &companyrepo.Company{
		ID:          CompanyID,
		Name:        "Acme Inc",
		Description: "A test company for demonstration purposes",
		Logo:        "https://ui-avatars.com/api/?name=Acme+Inc&background=0D8ABC&color=fff",
		Timezone:    "America/New_York",
		OwnerID:     "test-user",
		OwnerEmail:  EmployerEmail,
		CreatedAt:   now,
	}

	if err := s.reset(ctx); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	if err := s.users.Save(ctx, &authrepo.User{
		ID:           "test-user",
		Email:        EmployerEmail,
		Name:         "Amanda Thompson",
		Role:         authrepo.RoleEmployer,
		CompanyID:    CompanyID,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("save demo employer: %w", err)
	}

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("save demo company: %w", err)
	}

	res := &Result{CompanyID: CompanyID, AccessCodes: make(map[string]string)}

	employees := make([]*companyrepo.Employee, 0, len(roster))
	for i, r := range roster {
		emp := &companyrepo.Employee{
			ID:         fmt.Sprintf("%semployee-%d", idPrefix, i+1),
			Name:       r.name,
			Email:      r.email,
			AccessCode: fmt.Sprintf("TEST%d", 1000+i),
			CompanyID:  CompanyID,
			Position:   r.position,
			IsActive:   true,
			CreatedAt:  now,
		}
		if err := s.employees.Save(ctx, emp); err != nil {
			return nil, fmt.Errorf("save employee %s: %w", emp.ID, err)
		}
		employees = append(employees, emp)
		res.AccessCodes[emp.Name] = emp.AccessCode
	}

	today := company.Today(now)
	for day := 0; day < historyDays; day++ {
		date := daysBefore(today, day)

		// 3 or 4 reporters a day, rotating through the roster
		n := 3 + day%2
		for k := 0; k < n; k++ {
			emp := employees[(day*3+k)%len(employees)]
			report, err := newReport(emp, date, roleSummary(emp.Position), []domain.WorkShift{{
				StartTime:    "08:00",
				EndTime:      "16:00",
				BreakMinutes: 60,
				Description:  shiftLabel(day),
			}}, domain.StatusSubmitted, now)
			if err != nil {
				return nil, err
			}
			if err := s.reports.Save(ctx, report); err != nil {
				return nil, fmt.Errorf("save report %s: %w", report.ID, err)
			}
			res.Reports++
		}
	}
	res.Employees = len(employees)

	if opts.EmployeeMode {
		n, err := s.seedPersonal(ctx, today, now)
		if err != nil {
			return nil, err
		}
		res.Employees++
		res.Reports += n
		res.AccessCodes["John Developer"] = DemoCode
	}

	s.logger.Info().
		Int("employees", res.Employees).
		Int("reports", res.Reports).
		Bool("employee_mode", opts.EmployeeMode).
		Msg("demo data seeded")

	return res, nil
}

func (s *Seeder) seedPersonal(ctx context.Context, today string, now time.Time) (int, error) {
	emp := &companyrepo.Employee{
		ID:         DemoEmployee,
		Name:       "John Developer",
		Email:      "john@example.com",
		AccessCode: DemoCode,
		CompanyID:  CompanyID,
		Position:   "Frontend Developer",
		IsActive:   true,
		CreatedAt:  now,
	}
	if err := s.employees.Save(ctx, emp); err != nil {
		return 0, fmt.Errorf("save demo employee: %w", err)
	}

	count := 0
	for i := 1; i <= personalLog; i++ {
		report, err := newReport(emp, daysBefore(today, i), personalSummaries[i%len(personalSummaries)], personalShifts(i), domain.StatusSubmitted, now)
		if err != nil {
			return 0, err
		}
		if err := s.reports.Save(ctx, report); err != nil {
			return 0, fmt.Errorf("save report %s: %w", report.ID, err)
		}
		count++
	}

	draft, err := newReport(emp, today,
		"Started working on the new notification system. Currently implementing the UI components.",
		[]domain.WorkShift{{StartTime: "09:00", EndTime: "13:00", BreakMinutes: 15, Description: "Morning session"}},
		domain.StatusDraft, now)
	if err != nil {
		return 0, err
	}
	if err := s.reports.Save(ctx, draft); err != nil {
		return 0, fmt.Errorf("save draft: %w", err)
	}
	return count + 1, nil
}

// reset deletes demo employees and every report they filed
func (s *Seeder) reset(ctx context.Context) error {
	existing, err := s.employees.ListByCompany(ctx, CompanyID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if !strings.HasPrefix(e.ID, idPrefix) {
			continue
		}
		if err := s.reports.DeleteByEmployee(ctx, e.ID); err != nil {
			return fmt.Errorf("delete reports of %s: %w", e.ID, err)
		}
		if err := s.employees.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete employee %s: %w", e.ID, err)
		}
	}
	return nil
}

func newReport(emp *companyrepo.Employee, date, summary string, shifts []domain.WorkShift, status domain.Status, now time.Time) (*domain.Report, error) {
	for i := range shifts {
		shifts[i].ID = fmt.Sprintf("%s-%s-%d", emp.ID, date, i+1)
	}
	hours, err := domain.ComputeHours(shifts)
	if err != nil {
		return nil, err
	}

	r := &domain.Report{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Date:       date,
		Summary:    summary,
		Shifts:     shifts,
		TotalHours: hours,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == domain.StatusSubmitted {
		submitted := now
		r.SubmittedAt = &submitted
	}
	return r, nil
}

func personalShifts(day int) []domain.WorkShift {
	switch {
	case day%4 == 0:
		return []domain.WorkShift{{StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30, Description: "Night shift"}}
	case day%3 == 0:
		return []domain.WorkShift{
			{StartTime: "09:00", EndTime: "12:00", Description: "Morning session"},
			{StartTime: "14:00", EndTime: "18:00", BreakMinutes: 15, Description: "Afternoon session"},
		}
	default:
		return []domain.WorkShift{{StartTime: "09:00", EndTime: "17:30", BreakMinutes: 45, Description: "Regular day"}}
	}
}

func roleSummary(position string) string {
	switch {
	case strings.Contains(position, "Developer"):
		return "Worked on implementing new features. Fixed bugs in the user interface. Participated in code review with the team."
	case strings.Contains(position, "Designer"):
		return "Finished the wireframes for the mobile app redesign. Conducted user interviews and gathered valuable feedback. Created prototypes for the new onboarding flow."
	case strings.Contains(position, "Manager"):
		return "Led team meeting and sprint planning. Coordinated with other departments on upcoming initiatives. Updated project timelines and resource allocation."
	default:
		return "Completed assigned tasks for the current sprint. Participated in team meetings and provided updates. Collaborated with team members on ongoing projects."
	}
}

func shiftLabel(day int) string {
	if day%2 == 0 {
		return "Early shift"
	}
	return "Regular shift"
}

func daysBefore(date string, n int) string {
	t, _ := time.Parse("2006-01-02", date)
	return t.AddDate(0, 0, -n).Format("2006-01-02")
}
