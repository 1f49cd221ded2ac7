package lookahead

import "github.com/prometheus/client_golang/prometheus"

// MetricsRecorder receives optional counters from the search driver and
// lookahead probe (§11: metrics are observability, not a proof artifact, so
// wiring them does not conflict with the "no proof certificate generation"
// non-goal). A nil MetricsRecorder is replaced with noopMetrics so the
// library never requires a running Prometheus registry.
type MetricsRecorder interface {
	Decision()
	Conflict()
	Probe()
	Windfall()
	Autarky()
	DoubleLookTrigger()
	BinaryAdded()
}

type noopMetrics struct{}

func (noopMetrics) Decision()          {}
func (noopMetrics) Conflict()          {}
func (noopMetrics) Probe()             {}
func (noopMetrics) Windfall()          {}
func (noopMetrics) Autarky()           {}
func (noopMetrics) DoubleLookTrigger() {}
func (noopMetrics) BinaryAdded()       {}

// PrometheusMetrics is a MetricsRecorder backed by real Prometheus counters,
// grounded on the corpus's pervasive use of
// github.com/prometheus/client_golang/prometheus (operator-framework).
type PrometheusMetrics struct {
	decisions         prometheus.Counter
	conflicts         prometheus.Counter
	probes            prometheus.Counter
	windfalls         prometheus.Counter
	autarkies         prometheus.Counter
	doubleLookTrigger prometheus.Counter
	binariesAdded     prometheus.Counter
}

// NewPrometheusMetrics registers a family of lookahead_* counters against
// reg. Passing a dedicated *prometheus.Registry (rather than the global one)
// keeps repeated solver construction in tests from panicking on duplicate
// registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		decisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_decisions_total",
			Help: "Number of decisions made by the search driver.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_conflicts_total",
			Help: "Number of conflicts encountered during search.",
		}),
		probes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_probes_total",
			Help: "Number of lookahead1 probes attempted.",
		}),
		windfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_windfalls_total",
			Help: "Number of windfall literals promoted to permanent binaries.",
		}),
		autarkies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_autarkies_total",
			Help: "Number of autarkies detected during lookahead.",
		}),
		doubleLookTrigger: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_double_look_triggers_total",
			Help: "Number of times a probe's WNB exceeded delta_trigger.",
		}),
		binariesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lookahead_binaries_added_total",
			Help: "Number of binary clauses added to the implication graph.",
		}),
	}
	reg.MustRegister(m.decisions, m.conflicts, m.probes, m.windfalls,
		m.autarkies, m.doubleLookTrigger, m.binariesAdded)
	return m
}

func (m *PrometheusMetrics) Decision()          { m.decisions.Inc() }
func (m *PrometheusMetrics) Conflict()          { m.conflicts.Inc() }
func (m *PrometheusMetrics) Probe()             { m.probes.Inc() }
func (m *PrometheusMetrics) Windfall()          { m.windfalls.Inc() }
func (m *PrometheusMetrics) Autarky()           { m.autarkies.Inc() }
func (m *PrometheusMetrics) DoubleLookTrigger() { m.doubleLookTrigger.Inc() }
func (m *PrometheusMetrics) BinaryAdded()       { m.binariesAdded.Inc() }
