package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NotificationsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_notifications_received_total",
		Help: "Total number of notification requests received",
	}, []string{"kind"})
	NotificationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_notifications_rejected_total",
		Help: "Total number of notification requests rejected by validation",
	}, []string{"kind"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host"})

	DeliveryPartial = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_delivery_partial_total",
		Help: "Total number of order dispatches where exactly one of the two sends failed",
	})

	AuditEventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full or closed",
	}, []string{"sink"})
	AuditEventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_audit_events_failed_total",
		Help: "Total number of audit events that failed to write to a sink",
	}, []string{"sink"})
)

func init() {
	prometheus.MustRegister(NotificationsReceived)
	prometheus.MustRegister(NotificationsRejected)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(DeliveryPartial)
	prometheus.MustRegister(AuditEventsDropped)
	prometheus.MustRegister(AuditEventsFailed)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
