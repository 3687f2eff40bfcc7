package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters exported on /metrics.
type Metrics struct {
	CodeRequests  *prometheus.CounterVec
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Deliveries    *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CodeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rubbishit_code_requests_total",
				Help: "Verification code requests by result",
			},
			[]string{"result"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rubbishit_registrations_total",
				Help: "Registration attempts by result",
			},
			[]string{"result"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rubbishit_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rubbishit_code_deliveries_total",
				Help: "Verification code deliveries by mode and result",
			},
			[]string{"mode", "result"},
		),
	}

	reg.MustRegister(m.CodeRequests, m.Registrations, m.Logins, m.Deliveries)

	return m
}

// NewNop returns counters registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
