package events

import (
	"context"

	"github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

// CompanyEventPublisher publishes roster events
type CompanyEventPublisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewCompanyEventPublisher creates a new company event publisher
func NewCompanyEventPublisher(publisher messaging.EventPublisher, log *logger.Logger) *CompanyEventPublisher {
	return &CompanyEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// PublishEmployeeAdded publishes an employee added event
func (p *CompanyEventPublisher) PublishEmployeeAdded(ctx context.Context, emp *repository.Employee) {
	data := messaging.EmployeeAddedEvent{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Name:       emp.Name,
		Email:      emp.Email,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEmployeeAdded, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", emp.ID).Msg("failed to publish employee added event")
	}
}

// PublishEmployeeRemoved publishes an employee removed event
func (p *CompanyEventPublisher) PublishEmployeeRemoved(ctx context.Context, companyID, employeeID string) {
	data := messaging.EmployeeRemovedEvent{
		EmployeeID: employeeID,
		CompanyID:  companyID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEmployeeRemoved, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", employeeID).Msg("failed to publish employee removed event")
	}
}
