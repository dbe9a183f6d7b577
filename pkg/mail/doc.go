// Package mail provides the outgoing mail transports for the emailer: an
// SES sender for the transactional-email API and an SMTP sender with retry
// logic for relay deployments. Both set identical plain-text and HTML
// bodies on the outgoing message.
package mail
