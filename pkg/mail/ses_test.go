package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/system"
)

type fakeSES struct {
	lastInput *ses.SendEmailInput
	err       error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{}, nil
}

func TestSESSenderSend(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, "admin@example.com", system.NewTestLogger())

	err := sender.Send(context.Background(),
		"owner@example.com",
		"New AWS IAM Access Key Pair Created",
		"text body",
		"<html>html body</html>")

	require.NoError(t, err)
	require.NotNil(t, client.lastInput)

	assert.Equal(t, "admin@example.com", *client.lastInput.Source)
	assert.Equal(t, []string{"owner@example.com"}, client.lastInput.Destination.ToAddresses)
	assert.Equal(t, "New AWS IAM Access Key Pair Created", *client.lastInput.Message.Subject.Data)
	assert.Equal(t, "text body", *client.lastInput.Message.Body.Text.Data)
	assert.Equal(t, "<html>html body</html>", *client.lastInput.Message.Body.Html.Data)
}

func TestSESSenderSendFailure(t *testing.T) {
	client := &fakeSES{err: errors.New("MessageRejected")}
	sender := NewSESSender(client, "admin@example.com", system.NewTestLogger())

	err := sender.Send(context.Background(), "owner@example.com", "subject", "body", "body")

	assert.ErrorContains(t, err, "MessageRejected")
}

func TestSESSenderAllowsEmptyRecipientAndBody(t *testing.T) {
	// The pipeline may arrive here with an empty recipient (lookup miss)
	// or an empty body (template miss); the transport forwards the request
	// as-is and lets the API decide.
	client := &fakeSES{}
	sender := NewSESSender(client, "admin@example.com", system.NewTestLogger())

	err := sender.Send(context.Background(), "", "subject", "", "")

	require.NoError(t, err)
	assert.Equal(t, []string{""}, client.lastInput.Destination.ToAddresses)
	assert.Equal(t, "", *client.lastInput.Message.Body.Html.Data)
}

func TestSESSenderProvider(t *testing.T) {
	sender := NewSESSender(&fakeSES{}, "admin@example.com", system.NewTestLogger())
	assert.Equal(t, "ses", sender.Provider())
}
