package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/notification"
)

// StubMailer logs outgoing messages instead of delivering them.
// Used in development and tests.
type StubMailer struct {
	logger *zap.Logger
	sent   []notification.EmailMessage
}

// NewStubMailer creates a new StubMailer
func NewStubMailer(logger *zap.Logger) *StubMailer {
	return &StubMailer{logger: logger}
}

// Send records the message and succeeds
func (m *StubMailer) Send(_ context.Context, msg notification.EmailMessage) error {
	m.sent = append(m.sent, msg)
	m.logger.Info("stub mailer: email not delivered",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// Sent returns the messages recorded so far
func (m *StubMailer) Sent() []notification.EmailMessage {
	return m.sent
}

var _ notification.Mailer = (*StubMailer)(nil)
