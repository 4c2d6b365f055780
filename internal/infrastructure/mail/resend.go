package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/infrastructure/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer sends email through the Resend HTTP API
type ResendMailer struct {
	cfg    *config.MailConfig
	client *http.Client
}

// NewResendMailer creates a new ResendMailer
func NewResendMailer(cfg *config.MailConfig) *ResendMailer {
	return &ResendMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send sends one message via the Resend API
func (m *ResendMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("recipient address is required")
	}

	payload, err := json.Marshal(resendRequest{
		From:    formatFrom(m.cfg),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email via resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

var _ notification.Mailer = (*ResendMailer)(nil)
