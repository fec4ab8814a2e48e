package bollywood

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Engine owns every running actor: it assigns identity, starts the driving
// goroutine, routes sends by PID, and tears everything down on Shutdown.
type Engine struct {
	cfg      EngineConfig
	logger   *zap.Logger
	metrics  *Metrics
	actors   map[string]*process
	mu       sync.RWMutex
	stopping atomic.Bool
}

// EngineOption customizes a newly constructed Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cfg            *EngineConfig
	logger         *zap.Logger
	registry       prometheus.Registerer
	metricsEnabled bool
}

// WithConfig overrides the default EngineConfig.
func WithConfig(cfg EngineConfig) EngineOption {
	return func(o *engineOptions) { o.cfg = &cfg }
}

// WithLogger overrides the Engine's zap.Logger (default built from the
// config's log_level/log_encoding).
func WithLogger(logger *zap.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = logger }
}

// WithMetricsRegistry registers the Engine's Prometheus collectors against
// reg instead of the private registry NewEngine otherwise creates for each
// engine. Has no effect unless metrics are also
// enabled via WithMetricsEnabled.
func WithMetricsRegistry(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) { o.registry = reg }
}

// WithMetricsEnabled turns Prometheus metrics collection on. Metrics are
// disabled by default: NewMetrics builds no collectors and registers nothing
// against any registry until this is set, the same enable-gate czx-lab-czx's
// prometheus package uses.
func WithMetricsEnabled(enabled bool) EngineOption {
	return func(o *engineOptions) { o.metricsEnabled = enabled }
}

// NewEngine constructs an Engine ready to spawn actors.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := DefaultEngineConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}

	logger := o.logger
	if logger == nil {
		built, err := newLogger(cfg)
		if err != nil {
			return nil, err
		}
		logger = built
	}

	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(reg, o.metricsEnabled),
		actors:  make(map[string]*process),
	}, nil
}

// Spawn creates and starts a new actor from props, returning the Address a
// caller uses to reach it. Returns an error if the engine is shutting down.
func (e *Engine) Spawn(props *Props) (*Address, error) {
	if e.stopping.Load() {
		return nil, fmt.Errorf("bollywood: engine is shutting down")
	}
	if props == nil || props.produce == nil {
		return nil, ErrNilProducer
	}

	pid := newPID()
	capacity := props.mailboxCapacity
	if capacity <= 0 {
		capacity = e.cfg.DefaultMailboxCapacity
	}
	if capacity <= 0 {
		capacity = defaultMailboxCapacity
	}
	mailbox := NewMailbox(capacity)

	proc := newProcess(e, pid, props, mailbox, e.logger, e.metrics)
	proc.fairnessCap = e.cfg.FairnessCap

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	e.metrics.incActorsAlive()

	go proc.run()

	return &Address{pid: pid, mailbox: mailbox}, nil
}

// Lookup returns the Address for a PID still known to the engine.
func (e *Engine) Lookup(pid *PID) (*Address, bool) {
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &Address{pid: pid, mailbox: proc.ctx.mailbox}, true
}

// Stop requests a graceful stop of the actor named by pid. No-op if the PID
// is unknown (already stopped).
func (e *Engine) Stop(pid *PID) {
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if ok {
		proc.ctx.Stop()
	}
}

// remove drops pid from the engine's tracking table. Called by a process
// once it reaches Stopped, whether gracefully or via panic recovery.
func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
	e.metrics.decActorsAlive()
}

// Shutdown requests every running actor to stop and blocks until they have
// all torn down or timeout elapses, whichever comes first. Actors still
// running at the deadline are dropped from tracking without running their
// Stopped hook — the same trade-off the engine's single-process model
// always had: a handler that never yields cannot be preempted from
// outside.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	e.mu.Lock()
	remaining := len(e.actors)
	if remaining > 0 {
		e.logger.Warn("shutdown timeout with actors still running", zap.Int("remaining", remaining))
		e.actors = make(map[string]*process)
	}
	e.mu.Unlock()
}
