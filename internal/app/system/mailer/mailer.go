// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a message ready to send. Both bodies should be set; text is
// the fallback for clients that do not render HTML.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings. An empty Host puts the mailer in log-only
// mode, which is useful in development where no relay is available.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type Mailer struct {
	config Config
	logger *zap.Logger
}

func New(config Config, logger *zap.Logger) *Mailer {
	if config.Port == 0 {
		config.Port = 587
	}
	return &Mailer{config: config, logger: logger}
}

// Send delivers the email over SMTP, or logs it when no host is
// configured.
func (m *Mailer) Send(email Email) error {
	if email.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	if m.config.Host == "" {
		m.logger.Info("mailer in log-only mode, not sending",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.String("text_body", email.TextBody))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	msg := m.buildMessage(email)
	if err := smtp.SendMail(addr, auth, m.config.From, []string{email.To}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", email.To, err)
	}

	m.logger.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}

const boundary = "=_alumhub_alt_boundary_"

func (m *Mailer) buildMessage(email Email) []byte {
	from := m.config.From
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(email.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(email.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
