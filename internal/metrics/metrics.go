// Package metrics records domain operation outcomes for Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yukikurage/duty-tracker/internal/models"
)

// Recorder observes one completed domain operation.
type Recorder interface {
	ObserveOperation(op string, started time.Time, err error)
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveOperation(string, time.Time, error) {}

// Prometheus exports operation counters and latencies.
type Prometheus struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// New registers the duty tracker collectors on reg.
func New(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		// Labels: op, outcome (ok, not_found, duplicate, unauthorized,
		// invalid_input, already_in_state, error)
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duty_tracker",
			Name:      "operations_total",
			Help:      "Domain operations by outcome",
		}, []string{"op", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "duty_tracker",
			Name:      "operation_duration_seconds",
			Help:      "Domain operation latency including the snapshot load and write",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
	}
}

func (p *Prometheus) ObserveOperation(op string, started time.Time, err error) {
	p.operations.WithLabelValues(op, Outcome(err)).Inc()
	p.latency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Outcome names the error kind of err for the outcome label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch kind := models.KindOf(err); {
	case errors.Is(kind, models.ErrNotFound):
		return "not_found"
	case errors.Is(kind, models.ErrDuplicateKey):
		return "duplicate"
	case errors.Is(kind, models.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(kind, models.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(kind, models.ErrAlreadyInState):
		return "already_in_state"
	default:
		return "error"
	}
}
