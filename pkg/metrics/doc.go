// Package metrics defines Prometheus metrics for the notification emailer,
// covering event intake and normalization, account lookups, template
// resolution, and mail delivery.
package metrics
