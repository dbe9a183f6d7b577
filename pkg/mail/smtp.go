package mail

import (
	"context"
	"crypto/tls"
	"math"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/config"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// SMTPSender sends mail through an SMTP relay. Unlike the SES transport it
// retries transient failures itself with exponential backoff, since relay
// deployments have no API-side delivery handling.
type SMTPSender struct {
	dialer         *gomail.Dialer
	source         string
	retryCount     int
	retryBackoffMs int
	log            *zap.SugaredLogger
}

func NewSMTPSender(cfg config.Mail, log *zap.SugaredLogger) *SMTPSender {
	log = log.Named("smtp-sender")
	log.Infow("initializing SMTP sender",
		"host", cfg.SMTP.Host, "port", cfg.SMTP.Port, "user", cfg.SMTP.User)

	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	if cfg.SMTP.InsecureSkipVerify {
		log.Warn("InsecureSkipVerify is enabled for the mail TLS connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	retryCount := cfg.SMTP.RetryCount
	if retryCount <= 0 {
		retryCount = 3
	}
	retryBackoffMs := cfg.SMTP.RetryBackoffMs
	if retryBackoffMs <= 0 {
		retryBackoffMs = 100
	}

	return &SMTPSender{
		dialer:         d,
		source:         cfg.SenderAddress,
		retryCount:     retryCount,
		retryBackoffMs: retryBackoffMs,
		log:            log,
	}
}

func (s *SMTPSender) Provider() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, recipient, subject, textBody, htmlBody string) error {
	s.log.Infow("sending email", "recipient", recipient, "subject", subject)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.source)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		err := s.dialer.DialAndSend(msg)
		if err == nil {
			s.log.Infow("mail sent", "recipient", recipient, "attempt", attempt+1)
			metrics.MailSendSuccess.WithLabelValues(s.Provider()).Inc()
			return nil
		}

		lastErr = err
		if attempt < s.retryCount {
			s.log.Warnw("send attempt failed, retrying",
				"attempt", attempt+1, "backoffMs", backoffMs, "error", err)
			time.Sleep(time.Duration(backoffMs) * time.Millisecond)
			backoffMs = int(math.Min(float64(backoffMs)*2, 32000))
		} else {
			s.log.Errorw("failed to send mail",
				"attempts", s.retryCount+1, "error", err)
		}
	}

	metrics.MailSendFailure.WithLabelValues(s.Provider()).Inc()
	return lastErr
}
