// Package metrics provides Prometheus metrics export for the message
// pipeline and the reminder engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter registers and serves the instance counters.
type Exporter struct {
	registry *prometheus.Registry

	messagesSent       *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	limitRejections    *prometheus.CounterVec
	remindersSent      *prometheus.CounterVec
	reminderFailures   *prometheus.CounterVec
}

func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{registry: registry}

	e.messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicai",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Completed message exchanges by dispatch branch",
		},
		[]string{"branch"},
	)
	e.generationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicai",
			Subsystem: "chat",
			Name:      "generation_failures_total",
			Help:      "Tool-branch provider failures by kind",
		},
		[]string{"branch", "kind"},
	)
	e.limitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicai",
			Subsystem: "chat",
			Name:      "limit_rejections_total",
			Help:      "Messages rejected by a usage limit",
		},
		[]string{"limit"},
	)
	e.remindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicai",
			Subsystem: "remind",
			Name:      "sent_total",
			Help:      "Reminder emails delivered",
		},
		[]string{"kind"},
	)
	e.reminderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicai",
			Subsystem: "remind",
			Name:      "failures_total",
			Help:      "Reminder sends that failed and were compensated",
		},
		[]string{"kind"},
	)

	registry.MustRegister(
		e.messagesSent,
		e.generationFailures,
		e.limitRejections,
		e.remindersSent,
		e.reminderFailures,
	)
	return e
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) CountMessage(branch string) {
	e.messagesSent.WithLabelValues(branch).Inc()
}

func (e *Exporter) CountGenerationFailure(branch, kind string) {
	e.generationFailures.WithLabelValues(branch, kind).Inc()
}

func (e *Exporter) CountLimitRejection(limit string) {
	e.limitRejections.WithLabelValues(limit).Inc()
}

func (e *Exporter) CountReminderSent(kind string) {
	e.remindersSent.WithLabelValues(kind).Inc()
}

func (e *Exporter) CountReminderFailure(kind string) {
	e.reminderFailures.WithLabelValues(kind).Inc()
}
