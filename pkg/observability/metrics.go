package observability

import (
	"errors"
	"strconv"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "facet"

// Outcome label values for property dispatch.
const (
	OutcomeOK      = "ok"
	OutcomeMiss    = "miss"
	OutcomeCoerced = "coerced"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors fed by object lifecycle events.
type Metrics struct {
	Objects         *prometheus.CounterVec
	Live            *prometheus.GaugeVec
	PropertyOps     *prometheus.CounterVec
	PropertyErrors  *prometheus.CounterVec
	SignalEmits     *prometheus.CounterVec
	SignalCallbacks *prometheus.HistogramVec
	Connections     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Objects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_created_total",
			Help:      "Total number of objects instantiated",
		}, []string{"class"}),
		Live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_live",
			Help:      "Objects instantiated and not yet destroyed",
		}, []string{"class"}),
		PropertyOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "property_ops_total",
			Help:      "Property reads and writes by outcome",
		}, []string{"class", "op", "outcome"}),
		PropertyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "property_errors_total",
			Help:      "Rejected property accesses by reason",
		}, []string{"class", "reason"}),
		SignalEmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_emits_total",
			Help:      "Total number of signal emissions",
		}, []string{"class", "signal", "failed"}),
		SignalCallbacks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "signal_callbacks",
			Help:      "Callbacks invoked per emission",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
		}, []string{"class"}),
		Connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signal_connections",
			Help:      "Callbacks connected under a signal name, as of the last change",
		}, []string{"class", "signal"}),
	}
	if reg != nil {
		reg.MustRegister(m.Objects, m.Live, m.PropertyOps, m.PropertyErrors,
			m.SignalEmits, m.SignalCallbacks, m.Connections)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInstantiate: func(e *domain.ObjectEvent) {
			m.Objects.WithLabelValues(e.Class).Inc()
			m.Live.WithLabelValues(e.Class).Inc()
		},
		OnDestroy: func(e *domain.ObjectEvent) {
			m.Live.WithLabelValues(e.Class).Dec()
		},
		OnPropertyGet: func(e *domain.PropertyEvent) {
			m.property("get", e)
		},
		OnPropertySet: func(e *domain.PropertyEvent) {
			m.property("set", e)
		},
		OnSignalEmit: func(e *domain.SignalEvent) {
			m.SignalEmits.WithLabelValues(e.Class, e.Signal, strconv.FormatBool(e.Err != nil)).Inc()
			m.SignalCallbacks.WithLabelValues(e.Class).Observe(float64(e.Callbacks))
		},
		OnSignalChange: func(e *domain.SignalEvent) {
			m.Connections.WithLabelValues(e.Class, e.Signal).Set(float64(e.Callbacks))
		},
	}
}

func (m *Metrics) property(op string, e *domain.PropertyEvent) {
	outcome := OutcomeOK
	switch {
	case e.Err != nil:
		outcome = OutcomeError
		m.PropertyErrors.WithLabelValues(e.Class, Reason(e.Err)).Inc()
	case e.Miss:
		outcome = OutcomeMiss
	case e.Coerced:
		outcome = OutcomeCoerced
	}
	m.PropertyOps.WithLabelValues(e.Class, op, outcome).Inc()
}

// Reason maps an error to a short, bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownProperty):
		return "unknown"
	case errors.Is(err, domain.ErrReadOnlyProperty):
		return "read_only"
	case errors.Is(err, domain.ErrWriteOnlyProperty):
		return "write_only"
	case errors.Is(err, domain.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrMarshal):
		return "marshal"
	case errors.Is(err, domain.ErrDestroyedObject):
		return "destroyed"
	default:
		return "other"
	}
}
