// Package event normalizes incoming notification events. Two producer
// systems emit structurally incompatible envelopes for the same logical
// account finding: an SNS-wrapped notification carrying subject and message
// text, and a native EventBridge event carrying structured account and
// detail-type fields. The normalizer tries the richer wrapped shape first
// and falls back to the native shape on any structural mismatch.
package event
