package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/infrastructure/config"
)

// SMTPMailer sends HTML email over an SMTP-compatible transport
type SMTPMailer struct {
	cfg *config.MailConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send sends one message. The send runs in a goroutine bounded by the
// configured timeout so a hung transport cannot hold the caller forever.
func (m *SMTPMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("recipient address is required")
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp send timed out: %w", ctx.Err())
	}
}

func (m *SMTPMailer) send(msg notification.EmailMessage) error {
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	body := "From: " + formatFrom(m.cfg) + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		msg.HTML

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("send email via smtp: %w", err)
	}
	return nil
}

// Ensure SMTPMailer implements notification.Mailer
var _ notification.Mailer = (*SMTPMailer)(nil)
