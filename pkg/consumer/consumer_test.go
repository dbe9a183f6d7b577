package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/system"
)

type scriptedReader struct {
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		// simulate shutdown once the script is exhausted
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

type recordingHandler struct {
	payloads []string
	err      error
}

func (h *recordingHandler) Handle(_ context.Context, raw []byte) (dispatch.Response, error) {
	h.payloads = append(h.payloads, string(raw))
	if h.err != nil {
		return dispatch.Response{}, h.err
	}
	return dispatch.Response{StatusCode: 200, Body: dispatch.BodySent}, nil
}

func newScriptedConsumer(reader *scriptedReader, handler Handler) *Consumer {
	return &Consumer{
		reader:  reader,
		handler: handler,
		log:     system.NewTestLogger(),
	}
}

func TestRunDispatchesAndCommits(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		{Partition: 0, Offset: 1, Value: []byte(`{"account":"111122223333","detail-type":"A"}`)},
		{Partition: 0, Offset: 2, Value: []byte(`{"account":"444455556666","detail-type":"B"}`)},
	}}
	handler := &recordingHandler{}

	err := newScriptedConsumer(reader, handler).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, handler.payloads, 2)
	assert.Len(t, reader.committed, 2)
}

func TestRunCommitsFailedDispatches(t *testing.T) {
	// A broken event will not get better on redelivery, so it is committed
	// even when dispatch fails.
	reader := &scriptedReader{messages: []kafka.Message{
		{Partition: 0, Offset: 7, Value: []byte(`not an event`)},
	}}
	handler := &recordingHandler{err: errors.New("no known envelope shape")}

	err := newScriptedConsumer(reader, handler).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, reader.committed, 1)
}

func TestClose(t *testing.T) {
	reader := &scriptedReader{}

	require.NoError(t, newScriptedConsumer(reader, &recordingHandler{}).Close())
	assert.True(t, reader.closed)
}
