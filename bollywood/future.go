package bollywood

import (
	"sync/atomic"
	"time"
)

// Poll is the result of polling an ActorFuture: either nothing happened yet
// (Ready == false) or the item produced its final Output.
type Poll struct {
	Ready  bool
	Output any
}

// Pending reports that an ActorFuture has no result yet.
func Pending() Poll { return Poll{} }

// Done reports that an ActorFuture has resolved with v.
func Done(v any) Poll { return Poll{Ready: true, Output: v} }

// ActorFuture is a scheduled unit polled with exclusive access to its
// actor. Go has no native Pin/Waker machinery, so the contract is realized
// with a level-triggered wake channel owned by the Context: Poll is called
// once whenever the context wakes, and a future that needs to be polled
// again arranges for that wake by calling TaskContext.Wake (typically from
// a background goroutine it starts the first time it's polled).
type ActorFuture interface {
	Poll(actor Actor, ctx *Context, task *TaskContext) Poll
}

// TaskContext is the per-poll handle an ActorFuture uses to request being
// polled again. It carries no per-future identity — every registered item
// is re-checked on every wake — which keeps the driver a flat, bounded
// scan instead of a dynamic multiplexer.
type TaskContext struct {
	ctx *Context
}

// Wake requests another scheduling pass. Safe to call from any goroutine.
func (t *TaskContext) Wake() {
	t.ctx.requestWake()
}

// sleepFuture is the ActorFuture backing the Sleep helper: an ActorFuture
// equivalent of the reactor's timer, usable anywhere an ActorFuture is
// expected (most notably ctx.Wait(Sleep(d))).
type sleepFuture struct {
	d     time.Duration
	timer *time.Timer
	fired atomic.Bool
}

// Sleep returns an ActorFuture that resolves once d has elapsed. It is the
// in-context analogue of the reactor's sleep(duration) -> future<()>.
func Sleep(d time.Duration) ActorFuture {
	return &sleepFuture{d: d}
}

func (s *sleepFuture) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	if s.fired.Load() {
		return Done(nil)
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.d, func() {
			s.fired.Store(true)
			task.Wake()
		})
	}
	return Pending()
}
