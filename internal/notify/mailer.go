package notify

import (
	"context"
	"fmt"

	"github.com/looply/looply-backend/pkg/config"
	"github.com/looply/looply-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Message is a plain-text email
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender returns an SMTP mailer, or a sender that only logs when mail is disabled
func NewSender(cfg *config.MailConfig, log *logger.Logger) Sender {
	if !cfg.Enabled {
		return &LogSender{logger: log}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send dials the relay and sends msg
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail %q: %w", msg.Subject, err)
	}
	return nil
}

// LogSender logs messages instead of sending them
type LogSender struct {
	logger *logger.Logger
}

// Send logs msg
func (l *LogSender) Send(_ context.Context, msg Message) error {
	l.logger.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("mail disabled, not sending")
	return nil
}
