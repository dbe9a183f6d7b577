package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// SESAPI is the subset of the SES client used by the sender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends mail through the SES transactional-email API. A single
// attempt per message; retry policy belongs to the caller's contract, not
// this transport.
type SESSender struct {
	client SESAPI
	source string
	log    *zap.SugaredLogger
}

func NewSESSender(client SESAPI, source string, log *zap.SugaredLogger) *SESSender {
	return &SESSender{
		client: client,
		source: source,
		log:    log.Named("ses-sender"),
	}
}

func (s *SESSender) Provider() string { return "ses" }

func (s *SESSender) Send(ctx context.Context, recipient, subject, textBody, htmlBody string) error {
	s.log.Infow("sending email", "recipient", recipient, "subject", subject)

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.source),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(textBody)},
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(s.Provider()).Inc()
		return fmt.Errorf("sending email via SES: %w", err)
	}

	metrics.MailSendSuccess.WithLabelValues(s.Provider()).Inc()
	return nil
}
