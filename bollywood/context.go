package bollywood

import (
	"reflect"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Context is an actor's per-actor scheduling surface: process-local, never
// shared across goroutines, bound to exactly one actor for its whole life.
type Context struct {
	engine  *Engine
	self    *PID
	mailbox *Mailbox

	handlers map[reflect.Type]func(any, *Context) MessageResponse

	state         LifecycleState
	stopRequested atomic.Bool
	stoppedCalled atomic.Bool

	waitFIFO []*waitItem
	registry *spawnRegistry

	wakeCh chan struct{}

	logger  *zap.Logger
	metrics *Metrics
}

func newContext(engine *Engine, self *PID, mailbox *Mailbox, logger *zap.Logger, metrics *Metrics) *Context {
	return &Context{
		engine:   engine,
		self:     self,
		mailbox:  mailbox,
		handlers: make(map[reflect.Type]func(any, *Context) MessageResponse),
		registry: newSpawnRegistry(),
		wakeCh:   make(chan struct{}, 1),
		logger:   logger,
		metrics:  metrics,
	}
}

// Engine returns the engine managing this actor.
func (c *Context) Engine() *Engine { return c.engine }

// Self returns the PID of the actor this context drives.
func (c *Context) Self() *PID { return c.self }

// State returns the current lifecycle state.
func (c *Context) State() LifecycleState { return c.state }

// Waiting reports whether a wait-item is currently suspending message
// dispatch — true iff the wait FIFO is non-empty.
func (c *Context) Waiting() bool { return len(c.waitFIFO) > 0 }

// Spawn schedules f in the spawn registry and returns a handle that can
// later be passed to Cancel. Spawning marks the context for re-poll.
func (c *Context) Spawn(f ActorFuture) SpawnHandle {
	h := c.registry.spawn(f)
	c.requestWake()
	return h
}

// spawnItem is the internal entry point used by response resolution; it is
// identical to Spawn but named separately so call sites read intent.
func (c *Context) spawnItem(f ActorFuture) SpawnHandle {
	return c.Spawn(f)
}

// Cancel drops the actor-future named by h. No effect if h is unknown or
// already complete; double-cancel is a no-op.
func (c *Context) Cancel(h SpawnHandle) bool {
	return c.registry.cancel(h)
}

// Wait pushes f onto the wait-item FIFO. While the FIFO is non-empty,
// message dispatch is suspended. Calling Wait from within a wait-item's own
// poll is legal: the new item joins the tail, it does not preempt the
// current one.
func (c *Context) Wait(f ActorFuture) {
	c.waitFIFO = append(c.waitFIFO, &waitItem{inner: f})
	c.requestWake()
}

// RunLater schedules fn to run once, d from now, with exclusive access to
// the context (but not wrapped as a message handler — fn receives ctx
// directly). Cancelling the returned handle drops the armed timer without
// firing.
func (c *Context) RunLater(d time.Duration, fn func(ctx *Context)) SpawnHandle {
	return c.Spawn(&closureItem{d: d, fn: fn})
}

// Notify delivers msg to this actor's own mailbox as an ordinary
// fire-and-forget message; it is queued like any other send; rather than
// invoked inline, so a handler calling Notify does not recurse into
// dispatch.
func (c *Context) Notify(msg any) {
	_ = c.mailbox.DoSend(&envelope{message: msg, sender: c.self, reply: nullReplySink{}})
}

// NotifyLater schedules msg for delivery to this actor d from now,
// fire-and-forget.
func (c *Context) NotifyLater(msg any, d time.Duration) SpawnHandle {
	return c.Spawn(newDelayedMessageItem(msg, d))
}

// Stop requests a graceful stop. Safe to call from any goroutine (e.g. from
// Engine.Stop as well as from inside a handler).
func (c *Context) Stop() {
	c.stopRequested.Store(true)
	c.requestWake()
}

func (c *Context) requestWake() {
	select {
	case c.wakeCh <- struct{}{}:
	default:
	}
}

// dispatch routes msg to its registered handler. A message with no
// registered handler is a programmer error — RegisterHandler is the
// runtime stand-in for a compile-time Handler<M> bound — surfaced as
// ErrNoHandler rather than panicking the actor.
func (c *Context) dispatch(msg any) MessageResponse {
	fn, ok := c.handlers[reflect.TypeOf(msg)]
	if !ok {
		if c.logger != nil {
			c.logger.Warn("no handler registered for message",
				zap.String("pid", c.self.ID),
				zap.String("type", reflect.TypeOf(msg).String()),
			)
		}
		return ImmediateErr(ErrNoHandler)
	}
	return fn(msg, c)
}

// AddStream schedules src as a MessageStreamItem: each value received from
// src is delivered to its registered handler in order, fire-and-forget,
// until src is closed. The returned handle can cancel the stream early —
// cancelling stops the forwarding goroutine even if src itself never
// closes, so the goroutine does not outlive the subscription.
func AddStream[M any](ctx *Context, src <-chan M) SpawnHandle {
	item := newMessageStreamItem()
	go func() {
		for {
			select {
			case v, ok := <-src:
				if !ok {
					item.closeSource()
					ctx.requestWake()
					return
				}
				item.push(v)
				ctx.requestWake()
			case <-item.done:
				return
			}
		}
	}()
	return ctx.Spawn(item)
}

// AddMessageStream is AddStream without a cancel handle, for streams the
// actor never needs to tear down independently of its own lifecycle (e.g.
// an inbound connection's frame stream).
func AddMessageStream[M any](ctx *Context, src <-chan M) {
	AddStream[M](ctx, src)
}
