package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Event intake metrics
	EventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailer_events_received_total",
		Help: "Total number of trigger events received, by trigger source",
	}, []string{"source"})
	EventsNormalized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailer_events_normalized_total",
		Help: "Total number of events successfully normalized, by envelope shape",
	}, []string{"shape"})
	EventsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_events_rejected_total",
		Help: "Total number of events that matched no known envelope shape",
	})
	AccountIDMissing = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_account_id_missing_total",
		Help: "Total number of wrapped events whose message carried no account identifier",
	})
	EventsThrottled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_events_throttled_total",
		Help: "Total number of notify requests rejected by the per-producer rate limit",
	})

	// Account lookup metrics
	AccountLookupMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_account_lookup_misses_total",
		Help: "Total number of account lookups that found no mapping entry",
	})
	AccountLookupErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_account_lookup_errors_total",
		Help: "Total number of account lookups that failed with a client error",
	})

	// Template resolution metrics
	TemplateMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_template_misses_total",
		Help: "Total number of event subjects with no matching template entry",
	})
	TemplateFetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emailer_template_fetch_errors_total",
		Help: "Total number of template object fetches that failed",
	})

	// Mail delivery metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailer_mail_send_success_total",
		Help: "Total number of emails sent successfully, by provider",
	}, []string{"provider"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailer_mail_send_failure_total",
		Help: "Total number of email send attempts that failed, by provider",
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(EventsReceived)
	prometheus.MustRegister(EventsNormalized)
	prometheus.MustRegister(EventsRejected)
	prometheus.MustRegister(AccountIDMissing)
	prometheus.MustRegister(EventsThrottled)
	prometheus.MustRegister(AccountLookupMisses)
	prometheus.MustRegister(AccountLookupErrors)
	prometheus.MustRegister(TemplateMisses)
	prometheus.MustRegister(TemplateFetchErrors)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
}

// MetricsHandler returns an http.Handler serving the Prometheus metrics
// endpoint. Mounted by main on the metrics listen address.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
