package notification

import "context"

// EmailMessage is a single outbound email
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Mailer sends one message per call. Implementations live in
// infrastructure/mail; callers must treat a send failure as non-fatal.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}
