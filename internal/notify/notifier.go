// Package notify emails employers about submitted reports and reminds
// employees who have not submitted yet.
package notify

import (
	"context"
	"fmt"
	"strings"

	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

// Notifier composes and sends notification emails
type Notifier struct {
	companies *companyrepo.CompanyRepository
	employees *companyrepo.EmployeeRepository
	sender    Sender
	logger    *logger.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(
	companies *companyrepo.CompanyRepository,
	employees *companyrepo.EmployeeRepository,
	sender Sender,
	log *logger.Logger,
) *Notifier {
	return &Notifier{
		companies: companies,
		employees: employees,
		sender:    sender,
		logger:    log,
	}
}

// ReportSubmitted tells the company owner that an employee submitted their report
func (n *Notifier) ReportSubmitted(ctx context.Context, data *messaging.ReportSubmittedEvent) error {
	company, err := n.companies.GetByID(ctx, data.CompanyID)
	if err != nil {
		return err
	}
	if company.OwnerEmail == "" {
		n.logger.Debug().Str("company_id", company.ID).Msg("company has no owner email, skipping")
		return nil
	}

	name := "Unknown"
	if emp, err := n.employees.GetByID(ctx, data.EmployeeID); err == nil {
		name = emp.Name
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s submitted their end-of-day report for %s.\n\n", name, data.Date)
	fmt.Fprintf(&body, "Hours worked: %.2f\n", data.TotalHours)
	if data.Summary != "" {
		fmt.Fprintf(&body, "\n%s\n", data.Summary)
	}

	return n.sender.Send(ctx, Message{
		To:      []string{company.OwnerEmail},
		Subject: fmt.Sprintf("[%s] EOD report from %s (%s)", company.Name, name, data.Date),
		Body:    body.String(),
	})
}

// RemindPending emails each pending employee that has an address.
// It returns how many reminders were sent.
func (n *Notifier) RemindPending(ctx context.Context, company *companyrepo.Company, date string, pending []*companyrepo.Employee) int {
	sent := 0
	for _, emp := range pending {
		if emp.Email == "" {
			continue
		}

		err := n.sender.Send(ctx, Message{
			To:      []string{emp.Email},
			Subject: fmt.Sprintf("[%s] Reminder: submit your EOD report for %s", company.Name, date),
			Body: fmt.Sprintf("Hi %s,\n\nYou have not submitted your end-of-day report for %s yet.\n"+
				"Sign in with your access code to fill it in.\n", emp.Name, date),
		})
		if err != nil {
			n.logger.Error().Err(err).Str("employee_id", emp.ID).Msg("failed to send reminder")
			continue
		}
		sent++
	}
	return sent
}
