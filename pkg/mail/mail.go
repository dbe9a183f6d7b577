package mail

import (
	"context"
)

// Sender submits one email to the configured transport. Implementations set
// both the plain-text and the HTML body; the emailer always sends identical
// content in both.
type Sender interface {
	Send(ctx context.Context, recipient, subject, textBody, htmlBody string) error
	Provider() string
}
