package auth

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dentalsupply/inventory/internal/apperror"
)

// Outcome labels for the auth counters.
const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid_request"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Metrics counts registration and login attempts by outcome. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
}

// NewMetrics registers the auth counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeLogin(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) observeRegistration(err error) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	switch apperror.SafeCode(err) {
	case http.StatusBadRequest:
		return outcomeInvalid
	case http.StatusUnauthorized:
		return outcomeRejected
	case http.StatusConflict:
		return outcomeConflict
	default:
		return outcomeError
	}
}
