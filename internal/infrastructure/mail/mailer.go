// Package mail provides outbound email transports behind the
// notification.Mailer port.
package mail

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/infrastructure/config"
)

// NewMailer constructs the transport selected by configuration
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) (notification.Mailer, error) {
	switch cfg.Transport {
	case "smtp":
		return NewSMTPMailer(cfg), nil
	case "resend":
		return NewResendMailer(cfg), nil
	case "stub":
		return NewStubMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// formatFrom renders the From header value
func formatFrom(cfg *config.MailConfig) string {
	if cfg.FromName == "" {
		return cfg.FromEmail
	}
	return fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
}
