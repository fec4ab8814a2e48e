package bollywood

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of Prometheus collectors an Engine updates as actors
// are spawned, dispatch messages, and stop. It is disabled by default —
// every method is then a no-op and nothing is registered against reg — and
// turned on with WithMetricsEnabled(true), the same enable-gate shape as
// czx-lab-czx's prometheus.Enable()/Start(Config).
type Metrics struct {
	enabled atomic.Bool

	actorsAlive         prometheus.Gauge
	mailboxDepth        *prometheus.GaugeVec
	spawnedFuturesAlive *prometheus.GaugeVec
	handlerPanicsTotal  prometheus.Counter
	messagesDispatched  prometheus.Counter
}

// NewMetrics builds a Metrics bound to reg. When enabled is false the
// collectors are never constructed or registered; every recording method
// becomes a no-op.
func NewMetrics(reg prometheus.Registerer, enabled bool) *Metrics {
	m := &Metrics{}
	if !enabled {
		return m
	}
	m.actorsAlive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bollywood_actors_alive",
		Help: "Number of actor processes currently running.",
	})
	m.mailboxDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bollywood_mailbox_depth",
		Help: "Number of envelopes currently queued per actor.",
	}, []string{"pid"})
	m.spawnedFuturesAlive = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bollywood_spawned_futures_active",
		Help: "Number of actor-futures currently tracked per actor.",
	}, []string{"pid"})
	m.handlerPanicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bollywood_handler_panics_total",
		Help: "Number of actor panics recovered by the engine.",
	})
	m.messagesDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bollywood_messages_dispatched_total",
		Help: "Number of message envelopes dispatched to a handler.",
	})
	reg.MustRegister(
		m.actorsAlive,
		m.mailboxDepth,
		m.spawnedFuturesAlive,
		m.handlerPanicsTotal,
		m.messagesDispatched,
	)
	m.enabled.Store(true)
	return m
}

// Enabled reports whether this Metrics is actually recording.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled.Load()
}

func (m *Metrics) incActorsAlive() {
	if m.Enabled() {
		m.actorsAlive.Inc()
	}
}

func (m *Metrics) decActorsAlive() {
	if m.Enabled() {
		m.actorsAlive.Dec()
	}
}

func (m *Metrics) setMailboxDepth(pid string, v float64) {
	if m.Enabled() {
		m.mailboxDepth.WithLabelValues(pid).Set(v)
	}
}

func (m *Metrics) setSpawnedFuturesAlive(pid string, v float64) {
	if m.Enabled() {
		m.spawnedFuturesAlive.WithLabelValues(pid).Set(v)
	}
}

func (m *Metrics) deleteActor(pid string) {
	if m.Enabled() {
		m.mailboxDepth.DeleteLabelValues(pid)
		m.spawnedFuturesAlive.DeleteLabelValues(pid)
	}
}

func (m *Metrics) incHandlerPanics() {
	if m.Enabled() {
		m.handlerPanicsTotal.Inc()
	}
}

func (m *Metrics) incMessagesDispatched() {
	if m.Enabled() {
		m.messagesDispatched.Inc()
	}
}
