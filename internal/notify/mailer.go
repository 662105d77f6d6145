package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/campushire/platform/internal/config"
)

// Mailer delivers outbound mail. It reports success as a boolean and never
// returns an error: delivery is informational to every caller and must not
// abort the operation that triggered it.
type Mailer interface {
	Send(to, subject, body string, isHTML bool) bool
}

// NewMailer selects an implementation from configuration. An SMTP host
// upgrades the log-only default.
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if strings.EqualFold(cfg.Mode, "smtp") && cfg.SMTPHost != "" {
		return &smtpMailer{cfg: cfg, logger: logger}
	}
	return &logMailer{logger: logger}
}

// logMailer records the mail instead of sending it, for development.
type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(to, subject, body string, isHTML bool) bool {
	m.logger.Info("mail (log mode)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Bool("html", isHTML),
		zap.Int("body_bytes", len(body)),
	)
	return true
}

type smtpMailer struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
}

func (m *smtpMailer) Send(to, subject, body string, isHTML bool) bool {
	contentType := "text/plain; charset=utf-8"
	if isHTML {
		contentType = "text/html; charset=utf-8"
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.cfg.EmailFrom),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s", contentType),
		"",
		body,
	}, "\r\n")

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.EmailFrom, []string{to}, []byte(msg)); err != nil {
		m.logger.Warn("mail delivery failed", zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}
