package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
)

// Shape identifies which envelope variant an event was parsed as.
type Shape string

const (
	// ShapeWrapped is the SNS-wrapped notification envelope emitted by the
	// custom config rules.
	ShapeWrapped Shape = "wrapped"
	// ShapeNative is the bare EventBridge event emitted by the AWS managed
	// rules.
	ShapeNative Shape = "native"
)

// ErrUnknownShape is returned when an event matches neither supported
// envelope shape.
var ErrUnknownShape = errors.New("event matches no known envelope shape")

// Normalized is the envelope-independent view of one event. It is produced
// once per invocation and never mutated afterwards.
type Normalized struct {
	// AccountID is the affected account identifier. For wrapped events it
	// is extracted from the message text and may be empty when the text
	// carries no identifier.
	AccountID string
	// Subject is the human-readable event subject, used both for template
	// selection and as the outgoing mail subject.
	Subject string
	// Message is the event detail text substituted into the template.
	Message string
}

// accountIDPattern locates the account identifier inside wrapped message
// text. The digit run may be empty, mirroring what the producers emit; an
// empty run normalizes to an empty AccountID.
var accountIDPattern = regexp.MustCompile(`Account: ([0-9]*)`)

// wrappedEnvelope is the SNS notification shape. Pointer fields distinguish
// absent keys from empty values so structural mismatch is detected
// explicitly rather than through zero values.
type wrappedEnvelope struct {
	Records []wrappedRecord `json:"Records"`
}

type wrappedRecord struct {
	Sns *wrappedNotification `json:"Sns"`
}

type wrappedNotification struct {
	Subject *string `json:"Subject"`
	Message *string `json:"Message"`
}

// nativeEvent is the bare EventBridge shape.
type nativeEvent struct {
	Account    *string `json:"account"`
	DetailType *string `json:"detail-type"`
}

// Normalizer parses raw event payloads into the Normalized triple.
type Normalizer struct {
	log *zap.SugaredLogger
}

func NewNormalizer(log *zap.SugaredLogger) *Normalizer {
	return &Normalizer{log: log.Named("normalizer")}
}

// Parse determines the envelope shape of raw and extracts the normalized
// triple. The wrapped shape is attempted first; any structural mismatch
// falls through to the native shape unconditionally. Only an event matching
// neither shape fails.
func (n *Normalizer) Parse(raw []byte) (Normalized, Shape, error) {
	if norm, ok := n.parseWrapped(raw); ok {
		metrics.EventsNormalized.WithLabelValues(string(ShapeWrapped)).Inc()
		return norm, ShapeWrapped, nil
	}

	if norm, ok := n.parseNative(raw); ok {
		metrics.EventsNormalized.WithLabelValues(string(ShapeNative)).Inc()
		return norm, ShapeNative, nil
	}

	metrics.EventsRejected.Inc()
	return Normalized{}, "", fmt.Errorf("%w: %s", ErrUnknownShape, truncate(raw, 256))
}

func (n *Normalizer) parseWrapped(raw []byte) (Normalized, bool) {
	var envelope wrappedEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Normalized{}, false
	}
	if len(envelope.Records) == 0 {
		return Normalized{}, false
	}
	sns := envelope.Records[0].Sns
	if sns == nil || sns.Subject == nil || sns.Message == nil {
		return Normalized{}, false
	}

	n.log.Debug("custom config rule notification detected")

	norm := Normalized{
		Subject: *sns.Subject,
		Message: *sns.Message,
	}

	if m := accountIDPattern.FindStringSubmatch(norm.Message); m != nil {
		norm.AccountID = m[1]
		n.log.Infow("found account ID in message text", "accountID", norm.AccountID)
	} else {
		// Extraction failed: report it explicitly instead of carrying a
		// stale identifier forward.
		n.log.Warnw("no account ID found in message text", "subject", norm.Subject)
		metrics.AccountIDMissing.Inc()
	}

	return norm, true
}

func (n *Normalizer) parseNative(raw []byte) (Normalized, bool) {
	var native nativeEvent
	if err := json.Unmarshal(raw, &native); err != nil {
		return Normalized{}, false
	}
	if native.Account == nil || native.DetailType == nil {
		return Normalized{}, false
	}

	n.log.Debug("managed rule event detected")

	return Normalized{
		AccountID: *native.Account,
		Subject:   *native.DetailType,
		Message:   compactJSON(raw),
	}, true
}

// compactJSON renders the whole payload as the message body for native
// events that carry no message text of their own.
func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
