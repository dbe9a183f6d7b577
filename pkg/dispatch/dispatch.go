package dispatch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/account"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/event"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/mail"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/system"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/template"
)

// Response body texts. Callers must look at Body, not StatusCode, to tell
// the outcomes apart: StatusCode is 200 either way.
const (
	BodySent    = "Email sent!"
	BodyNotSent = "ERROR email not sent!"
)

// Response is the fixed invocation result.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Result retains what actually happened during one dispatch run. The real
// send failure reason is kept for logging even though the Response hides it.
type Result struct {
	DispatchID string
	Event      event.Normalized
	Shape      event.Shape
	Recipient  string
	SendErr    error
}

// Response maps the result onto the fixed outward contract.
func (r Result) Response() Response {
	if r.SendErr != nil {
		return Response{StatusCode: 200, Body: BodyNotSent}
	}
	return Response{StatusCode: 200, Body: BodySent}
}

// Dispatcher runs the notification pipeline for one raw event at a time.
// It holds no mutable state, so concurrent invocations are safe.
type Dispatcher struct {
	normalizer *event.Normalizer
	accounts   account.Resolver
	templates  *template.Resolver
	sender     mail.Sender
	log        *zap.SugaredLogger
}

func New(
	normalizer *event.Normalizer,
	accounts account.Resolver,
	templates *template.Resolver,
	sender mail.Sender,
	log *zap.SugaredLogger,
) *Dispatcher {
	return &Dispatcher{
		normalizer: normalizer,
		accounts:   accounts,
		templates:  templates,
		sender:     sender,
		log:        log.Named("dispatcher"),
	}
}

// Handle runs the pipeline for one raw event and returns the fixed
// Response. A non-nil error means the run failed outside the defined
// recovery paths: the event matched no known shape, or the account lookup
// call itself failed. Everything else degrades silently into the Response.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (Response, error) {
	result, err := d.run(ctx, raw)
	if err != nil {
		return Response{}, err
	}

	log := d.log.With(system.DispatchFields(result.DispatchID, result.Event.AccountID, result.Event.Subject)...)
	if result.SendErr != nil {
		log.Errorw("email not sent", "recipient", result.Recipient, "error", result.SendErr)
	} else {
		log.Infow("email sent", "recipient", result.Recipient)
	}

	return result.Response(), nil
}

func (d *Dispatcher) run(ctx context.Context, raw []byte) (Result, error) {
	result := Result{DispatchID: uuid.NewString()}

	norm, shape, err := d.normalizer.Parse(raw)
	if err != nil {
		return Result{}, err
	}
	result.Event = norm
	result.Shape = shape

	record, err := d.accounts.Resolve(ctx, norm.AccountID)
	if err != nil {
		return Result{}, err
	}
	result.Recipient = record.Email

	body := d.templates.Resolve(ctx, norm.Subject)
	rendered := template.Render(body, norm.Message)

	// Identical plain-text and HTML bodies; the templates are HTML
	// fragments and no format divergence exists in this system.
	result.SendErr = d.sender.Send(ctx, record.Email, norm.Subject, rendered, rendered)
	return result, nil
}
