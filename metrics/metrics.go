// Package metrics holds the Prometheus collectors the API exports on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for message counters
const (
	OutcomeAccepted            = "accepted"
	OutcomeCustomerNotFound    = "customer_not_found"
	OutcomeNoActiveReservation = "no_active_reservation"
	OutcomeSent                = "sent"
	OutcomeError               = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	inboundMessages  *prometheus.CounterVec
	outboundMessages *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant_assistant",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restaurant_assistant",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant_assistant",
			Name:      "inbound_messages_total",
			Help:      "Inbound SMS webhook calls, by outcome.",
		}, []string{"outcome"}),
		outboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant_assistant",
			Name:      "outbound_messages_total",
			Help:      "Outbound SMS attempts, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.inboundMessages, m.outboundMessages)
	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InboundMessage counts a webhook call by outcome
func (m *Metrics) InboundMessage(outcome string) {
	if m == nil {
		return
	}
	m.inboundMessages.WithLabelValues(outcome).Inc()
}

// OutboundMessage counts a send attempt by outcome
func (m *Metrics) OutboundMessage(outcome string) {
	if m == nil {
		return
	}
	m.outboundMessages.WithLabelValues(outcome).Inc()
}
