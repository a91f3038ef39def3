// Package mailer emails the site owner when a new inquiry arrives.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/contact"
	"github.com/Zachkp/cutroom/internal/store"
)

var ErrNotConfigured = errors.New("mailer: SMTP credentials not configured")

type Config struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	User string `toml:"user"`
	Pass string `toml:"pass"`
	To   string `toml:"to"`
}

func (c Config) Configured() bool {
	return c.User != "" && c.Pass != "" && c.To != ""
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP delivers inquiry notifications over SMTP with PLAIN auth.
type SMTP struct {
	cfg    Config
	send   SendFunc
	logger *zap.Logger
}

func NewSMTP(cfg Config, logger *zap.Logger) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// WithSender swaps the transport, mostly for tests.
func (m *SMTP) WithSender(send SendFunc) *SMTP {
	m.send = send
	return m
}

func (m *SMTP) Notify(ctx context.Context, in store.Inquiry) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, Compose(m.cfg, in)); err != nil {
		return fmt.Errorf("send inquiry %s: %w", in.ID, err)
	}
	m.logger.Info("Inquiry email sent", zap.String("id", in.ID), zap.String("to", m.cfg.To))
	return nil
}

// Compose builds the RFC 5322 message for an inquiry. Header values are
// stripped of line breaks so form input cannot inject headers.
func Compose(cfg Config, in store.Inquiry) []byte {
	projectType := in.ProjectType
	if pt, ok := contact.LookupProjectType(in.ProjectType); ok {
		projectType = pt.Label + " / " + pt.JP
	}

	subject := fmt.Sprintf("Portfolio inquiry: %s (%s)", headerSafe(in.Name), headerSafe(projectType))
	body := fmt.Sprintf(`New contact form submission from the portfolio:

Name: %s
Email: %s
Project type: %s
Received: %s
Reference: %s

Message:
%s

---
Sent from the portfolio contact form
`, headerSafe(in.Name), headerSafe(in.Email), projectType, in.CreatedAt.Format("2006-01-02 15:04 MST"), in.ID,
		strings.ReplaceAll(in.Message, "\r\n", "\n"))

	var b strings.Builder
	b.WriteString("To: " + headerSafe(cfg.To) + "\r\n")
	b.WriteString("From: " + headerSafe(cfg.User) + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(in.Email) + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
