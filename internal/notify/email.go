package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
)

// EmailConfig holds the SMTP relay settings and recipient list for email
// notifications.
type EmailConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// EmailNotifier sends alert notifications over SMTP.
type EmailNotifier struct {
	cfg    EmailConfig
	logger logging.Logger
	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates an email notifier.
func NewEmailNotifier(cfg EmailConfig, logger logging.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Notify delivers the alert to all configured recipients. Returns
// ErrDisabled when notifications are off or no recipients are configured.
func (n *EmailNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	if !n.cfg.Enabled || len(n.cfg.Recipients) == 0 {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Sentiment alert: %s spike detected", alert.Emotion)
	body := fmt.Sprintf(
		"%s\r\n\r\nTriggered at: %s\r\nMessages in window: %d\r\nWindow: %d minutes\r\n",
		alert.Summary,
		alert.TriggeredAt.Format("2006-01-02 15:04:05 MST"),
		alert.MessageCount,
		alert.TimeWindow,
	)

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + strings.Join(n.cfg.Recipients, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, auth, n.cfg.From, n.cfg.Recipients, []byte(msg)); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	n.logger.Info("alert notification sent",
		"alert_id", alert.ID,
		"emotion", alert.Emotion,
		"recipients", len(n.cfg.Recipients),
	)
	return nil
}
