package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// EmailNotifier sends promotion alerts via SMTP
// It implements domain.Notifier
type EmailNotifier struct {
	cfg    SMTPConfig
	to     []string
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewEmailNotifier creates a new e-mail notifier
func NewEmailNotifier(cfg SMTPConfig, to []string, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		to:     to,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// NotifyPromotion e-mails the recipients that a model is on promotion
func (s *EmailNotifier) NotifyPromotion(ctx context.Context, model string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = s.to
	e.Subject = fmt.Sprintf("Promotion available: %s", model)
	e.Text = []byte(fmt.Sprintf(
		"Hello,\n\n"+
			"A promotion is currently available for the %s.\n"+
			"Run a new projection to see how it changes your purchase date.\n"+
			"\nBest regards,\nVehicle Planner",
		model,
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send promotion alert for %s: %v", model, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", s.to, e.Subject)
	return nil
}

// LogNotifier only logs promotion alerts
// Used when SMTP is not configured
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) NotifyPromotion(_ context.Context, model string) error {
	n.Logger.WithField("model", model).Info("Promotion available")
	return nil
}
