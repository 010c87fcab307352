package notify

import (
	"context"

	"github.com/looply/looply-backend/pkg/logger"
	"github.com/looply/looply-backend/pkg/messaging"
)

const queueName = "looply-notify.eod-events"

// ReportConsumer emails owners when reports are submitted
type ReportConsumer struct {
	consumer *messaging.Consumer
	notifier *Notifier
	logger   *logger.Logger
}

// NewReportConsumer creates a consumer bound to eod.report.submitted
func NewReportConsumer(rmq *messaging.RabbitMQ, notifier *Notifier, log *logger.Logger) (*ReportConsumer, error) {
	if err := rmq.DeclareDeadLetterQueue("looply-notify"); err != nil {
		return nil, err
	}

	consumer, err := messaging.NewConsumer(rmq, queueName, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeEOD, messaging.EventReportSubmitted); err != nil {
		return nil, err
	}

	c := &ReportConsumer{
		consumer: consumer,
		notifier: notifier,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventReportSubmitted, c.handleReportSubmitted)

	return c, nil
}

// Start starts consuming messages
func (c *ReportConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *ReportConsumer) handleReportSubmitted(ctx context.Context, event *messaging.Event) error {
	var data messaging.ReportSubmittedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("report_id", data.ReportID).
		Str("company_id", data.CompanyID).
		Msg("received report submitted event")

	return c.notifier.ReportSubmitted(ctx, &data)
}
