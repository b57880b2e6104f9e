package optimistic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the engine's Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "presto").
	Namespace string

	// Subsystem is the metrics subsystem (default: "optimistic").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the engine metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithRegistry sets the registry metrics are registered with.
func WithRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = reg }
}

// Metrics counts engine state transitions. A nil *Metrics disables
// instrumentation entirely.
type Metrics struct {
	cyclesStarted     prometheus.Counter
	failuresShown     prometheus.Counter
	reverts           prometheus.Counter
	completions       prometheus.Counter
	staleDrops        prometheus.Counter
	unresolvedTargets prometheus.Counter
}

// NewMetrics registers and returns the engine metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "presto",
		Subsystem: "optimistic",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		})
	}

	return &Metrics{
		cyclesStarted:     counter("cycles_started_total", "Optimistic cycles begun."),
		failuresShown:     counter("failures_shown_total", "Failure events that rendered error content."),
		reverts:           counter("reverts_total", "Completed reverts to snapshot state."),
		completions:       counter("completions_total", "Cycles finished by swap completion."),
		staleDrops:        counter("stale_drops_total", "Events dropped because their token was superseded."),
		unresolvedTargets: counter("unresolved_targets_total", "Begin calls aborted because no target resolved."),
	}
}

func (m *Metrics) cycleStarted() {
	if m != nil {
		m.cyclesStarted.Inc()
	}
}

func (m *Metrics) failureShown() {
	if m != nil {
		m.failuresShown.Inc()
	}
}

func (m *Metrics) reverted() {
	if m != nil {
		m.reverts.Inc()
	}
}

func (m *Metrics) completed() {
	if m != nil {
		m.completions.Inc()
	}
}

func (m *Metrics) staleDrop() {
	if m != nil {
		m.staleDrops.Inc()
	}
}

func (m *Metrics) unresolvedTarget() {
	if m != nil {
		m.unresolvedTargets.Inc()
	}
}
