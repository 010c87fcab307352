package events

import (
	"context"

	"github.com/looply/looply-backend/internal/eod/domain"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

// ReportEventPublisher publishes report lifecycle events. Failures are logged, never returned.
type ReportEventPublisher struct {
	publisher messaging.EventPublisher
	logger    *logger.Logger
}

// NewReportEventPublisher creates a new report event publisher
func NewReportEventPublisher(publisher messaging.EventPublisher, log *logger.Logger) *ReportEventPublisher {
	return &ReportEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// PublishReportSaved publishes a draft saved event
func (p *ReportEventPublisher) PublishReportSaved(ctx context.Context, r *domain.Report) {
	data := messaging.ReportSavedEvent{
		ReportID:   r.ID,
		EmployeeID: r.EmployeeID,
		CompanyID:  r.CompanyID,
		Date:       r.Date,
		TotalHours: r.TotalHours,
	}

	if err := p.publisher.Publish(ctx, messaging.EventReportSaved, data); err != nil {
		p.logger.Error().Err(err).Str("report_id", r.ID).Msg("failed to publish report saved event")
	}
}

// PublishReportSubmitted publishes a report submitted event
func (p *ReportEventPublisher) PublishReportSubmitted(ctx context.Context, r *domain.Report) {
	data := messaging.ReportSubmittedEvent{
		ReportID:   r.ID,
		EmployeeID: r.EmployeeID,
		CompanyID:  r.CompanyID,
		Date:       r.Date,
		TotalHours: r.TotalHours,
		Summary:    r.Summary,
	}
	if r.SubmittedAt != nil {
		data.SubmittedAt = *r.SubmittedAt
	}

	if err := p.publisher.Publish(ctx, messaging.EventReportSubmitted, data); err != nil {
		p.logger.Error().Err(err).Str("report_id", r.ID).Msg("failed to publish report submitted event")
	}
}
