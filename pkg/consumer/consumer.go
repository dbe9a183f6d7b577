package consumer

import (
	"context"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/config"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// Handler runs the pipeline for one raw event.
type Handler interface {
	Handle(ctx context.Context, raw []byte) (dispatch.Response, error)
}

// fetcher is the subset of kafka.Reader the consumer uses.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pulls event envelopes from the configured topic and dispatches
// them one at a time.
type Consumer struct {
	reader  fetcher
	handler Handler
	log     *zap.SugaredLogger
}

func New(cfg config.Kafka, handler Handler, log *zap.SugaredLogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:  reader,
		handler: handler,
		log:     log.Named("consumer"),
	}
}

// Run consumes until ctx is cancelled or the reader fails. Dispatch
// failures are logged and the message is committed anyway: a malformed or
// unresolvable event will not be any better on redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("event consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.log.Info("event consumer stopping")
				return nil
			}
			return err
		}

		metrics.EventsReceived.WithLabelValues("kafka").Inc()

		resp, err := c.handler.Handle(ctx, msg.Value)
		if err != nil {
			c.log.Errorw("dispatch failed for consumed event",
				"partition", msg.Partition, "offset", msg.Offset, "error", err)
		} else {
			c.log.Infow("event dispatched",
				"partition", msg.Partition, "offset", msg.Offset, "body", resp.Body)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
