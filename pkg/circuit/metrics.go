package circuit

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors updated by the Connector. A nil
// *Metrics records nothing.
type Metrics struct {
	Folds           *prometheus.CounterVec
	FoldDurations   *prometheus.HistogramVec
	Cascades        *prometheus.CounterVec
	TerminalEntries prometheus.Gauge
	PeakPorts       prometheus.Gauge
}

// NewMetrics registers the cascade metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	folds, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "photon_folds_total",
		Help: "Completed fold operations, labeled by kind (inner or cross).",
	}, []string{"kind"}), "photon_folds_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "photon_fold_duration_seconds",
		Help:    "Time spent in one fold across the whole frequency vector.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"kind"}), "photon_fold_duration_seconds")
	if err != nil {
		return nil, err
	}

	cascades, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "photon_cascades_total",
		Help: "Cascade runs, labeled by result (ok or error).",
	}, []string{"result"}), "photon_cascades_total")
	if err != nil {
		return nil, err
	}

	terminal, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_terminal_entries",
		Help: "Terminal entries left by the most recent successful cascade.",
	}), "photon_terminal_entries")
	if err != nil {
		return nil, err
	}

	peak, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_peak_ports",
		Help: "Largest port count of any entry built by the most recent cascade.",
	}), "photon_peak_ports")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Folds:           folds,
		FoldDurations:   durations,
		Cascades:        cascades,
		TerminalEntries: terminal,
		PeakPorts:       peak,
	}, nil
}

func (m *Metrics) observeFold(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Folds.WithLabelValues(kind).Inc()
	m.FoldDurations.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCascade(err error, terminal, peakPorts int) {
	if m == nil {
		return
	}
	if err != nil {
		m.Cascades.WithLabelValues("error").Inc()
		return
	}
	m.Cascades.WithLabelValues("ok").Inc()
	m.TerminalEntries.Set(float64(terminal))
	m.PeakPorts.Set(float64(peakPorts))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
