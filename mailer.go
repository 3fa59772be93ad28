package folio

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Mailer delivers contact messages.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

// SMTPMailer sends contact messages through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg MailConfig
	// send is smtp.SendMail; tests replace it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for cfg. cfg.To defaults to cfg.User.
func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.To}, composeMail(m.cfg, msg)); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

// composeMail builds the RFC 5322 message for msg.
func composeMail(cfg MailConfig, msg ContactMessage) []byte {
	name := headerSafe(msg.Name)
	var b strings.Builder
	b.WriteString("To: " + cfg.To + "\r\n")
	b.WriteString("From: " + cfg.From + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(msg.Email) + "\r\n")
	b.WriteString("Subject: Portfolio contact: " + name + "\r\n")
	b.WriteString("Date: " + msg.Received.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("Message-ID: <" + msg.ID + "@folio>\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("Name: " + name + "\r\n")
	b.WriteString("Email: " + headerSafe(msg.Email) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// LogMailer writes contact messages to the log instead of sending them.
type LogMailer struct {
	Log zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, msg ContactMessage) error {
	m.Log.Info().
		Str("id", msg.ID).
		Str("name", msg.Name).
		Str("email", msg.Email).
		Str("ip", msg.IP).
		Int("length", len(msg.Body)).
		Msg("contact message received (mail not configured)")
	return nil
}
