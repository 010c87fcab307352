package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/pkg/logger"
)

// PendingLister finds active employees without a submitted report
type PendingLister interface {
	PendingEmployees(ctx context.Context, companyID, date string) ([]*companyrepo.Employee, error)
}

// ReminderScheduler checks every interval whether a company has reached its
// reminder time and, once per local day, emails its pending employees.
type ReminderScheduler struct {
	companies *companyrepo.CompanyRepository
	pending   PendingLister
	notifier  *Notifier
	at        int // minutes after local midnight
	interval  time.Duration
	now       func() time.Time
	logger    *logger.Logger

	mu     sync.Mutex
	sent   map[string]string // company ID -> last reminded date
	cancel context.CancelFunc
}

// NewReminderScheduler creates a scheduler firing at the HH:MM time at
func NewReminderScheduler(
	companies *companyrepo.CompanyRepository,
	pending PendingLister,
	notifier *Notifier,
	at string,
	interval time.Duration,
	log *logger.Logger,
) (*ReminderScheduler, error) {
	minutes, ok := domain.ParseClock(at)
	if !ok {
		return nil, fmt.Errorf("reminder time %q must be HH:MM", at)
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &ReminderScheduler{
		companies: companies,
		pending:   pending,
		notifier:  notifier,
		at:        minutes,
		interval:  interval,
		now:       time.Now,
		logger:    log,
		sent:      make(map[string]string),
	}, nil
}

// Start runs the scheduler in a background goroutine until ctx is done or Stop is called
func (s *ReminderScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("reminder scheduler started")

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("reminder scheduler stopped")
				return
			case <-ticker.C:
				s.runCycle(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *ReminderScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *ReminderScheduler) runCycle(ctx context.Context) int {
	companies, err := s.companies.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list companies")
		return 0
	}

	total := 0
	now := s.now()
	for _, c := range companies {
		local := now.In(c.Location())
		if local.Hour()*60+local.Minute() < s.at {
			continue
		}

		date := local.Format("2006-01-02")
		if !s.markSent(c.ID, date) {
			continue
		}

		pending, err := s.pending.PendingEmployees(ctx, c.ID, date)
		if err != nil {
			s.logger.WithCompanyID(c.ID).Error().Err(err).Msg("failed to list pending employees")
			s.unmark(c.ID)
			continue
		}

		n := s.notifier.RemindPending(ctx, c, date, pending)
		s.logger.Info().
			Str("company_id", c.ID).
			Str("date", date).
			Int("pending", len(pending)).
			Int("reminded", n).
			Msg("sent EOD reminders")
		total += n
	}
	return total
}

// markSent records date for the company and reports whether it was new
func (s *ReminderScheduler) markSent(companyID, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent[companyID] == date {
		return false
	}
	s.sent[companyID] = date
	return true
}

func (s *ReminderScheduler) unmark(companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sent, companyID)
}
