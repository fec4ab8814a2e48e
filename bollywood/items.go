package bollywood

import (
	"sync"
	"sync/atomic"
	"time"
)

// canceller is implemented by ActorFutures that hold a resource (a timer,
// an outstanding reply) that must be released on cancellation rather than
// left to complete naturally.
type canceller interface {
	cancel()
}

// messageItem delivers one message to the handler table and always
// completes in a single poll. It is dispatched directly by the process
// loop for ordinary mailbox envelopes rather than parked in the spawn
// registry, since it never needs a second poll — but it remains a real
// ActorFuture so custom drivers can schedule one explicitly.
type messageItem struct {
	msg   any
	reply replySink
}

func (it *messageItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	msg := it.msg
	it.msg = nil
	resp := ctx.dispatch(msg)
	resolveResponse(ctx, resp, it.reply)
	return Done(nil)
}

// delayedMessageItem arms a timer for d at construction (lazily, on first
// poll) and delivers msg once it fires. Its reply is always discarded:
// delayed messages are fire-and-forget.
type delayedMessageItem struct {
	msg   any
	d     time.Duration
	timer *time.Timer
	fired atomic.Bool
}

func newDelayedMessageItem(msg any, d time.Duration) *delayedMessageItem {
	return &delayedMessageItem{msg: msg, d: d}
}

func (it *delayedMessageItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	if !it.fired.Load() {
		if it.timer == nil {
			it.timer = time.AfterFunc(it.d, func() {
				it.fired.Store(true)
				task.Wake()
			})
		}
		return Pending()
	}
	resp := ctx.dispatch(it.msg)
	resolveResponse(ctx, resp, nullReplySink{})
	return Done(nil)
}

func (it *delayedMessageItem) cancel() {
	if it.timer != nil {
		it.timer.Stop()
	}
}

// messageStreamItem drains a lazily-fed sequence of messages. Items arrive
// out of band (pushed by a small forwarding goroutine started in AddStream)
// into a mutex-guarded queue; Poll drains everything already queued in one
// pass, which is the stream's fairness/yield policy: it avoids a wake
// round-trip per item under burst load, but still yields the moment a
// handler causes the context to start waiting.
type messageStreamItem struct {
	mu     sync.Mutex
	buf    []any
	closed bool

	done       chan struct{}
	cancelOnce sync.Once
}

func newMessageStreamItem() *messageStreamItem {
	return &messageStreamItem{done: make(chan struct{})}
}

func (it *messageStreamItem) push(v any) {
	it.mu.Lock()
	it.buf = append(it.buf, v)
	it.mu.Unlock()
}

func (it *messageStreamItem) closeSource() {
	it.mu.Lock()
	it.closed = true
	it.mu.Unlock()
}

func (it *messageStreamItem) pop() (any, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if len(it.buf) == 0 {
		return nil, false
	}
	v := it.buf[0]
	it.buf = it.buf[1:]
	return v, true
}

func (it *messageStreamItem) exhausted() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.closed && len(it.buf) == 0
}

func (it *messageStreamItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	for {
		v, ok := it.pop()
		if !ok {
			if it.exhausted() {
				return Done(nil)
			}
			return Pending()
		}
		resp := ctx.dispatch(v)
		resolveResponse(ctx, resp, nullReplySink{})
		if ctx.Waiting() {
			return Pending()
		}
	}
}

// cancel stops the forwarding goroutine started in AddStream, so cancelling
// a stream's handle actually releases it instead of leaving it blocked on
// the source channel until the source happens to close on its own.
func (it *messageStreamItem) cancel() {
	it.cancelOnce.Do(func() { close(it.done) })
}

// closureItem arms a timer for d at construction (lazily, on first poll)
// and then runs fn with direct access to ctx — the run_later primitive,
// distinct from delayedMessageItem in that it runs arbitrary code rather
// than dispatching a message through a registered handler.
type closureItem struct {
	d     time.Duration
	fn    func(*Context)
	timer *time.Timer
	fired atomic.Bool
}

func (it *closureItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	if !it.fired.Load() {
		if it.timer == nil {
			it.timer = time.AfterFunc(it.d, func() {
				it.fired.Store(true)
				task.Wake()
			})
		}
		return Pending()
	}
	it.fn(ctx)
	return Done(nil)
}

func (it *closureItem) cancel() {
	if it.timer != nil {
		it.timer.Stop()
	}
}

// waitItem wraps an exclusive ActorFuture F whose presence suspends message
// dispatch. A Pending F is forced to Ready once the actor is no longer
// alive, so a stopped actor never blocks teardown on a wait that will
// never resolve.
type waitItem struct {
	inner ActorFuture
}

func (w *waitItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	p := w.inner.Poll(actor, ctx, task)
	if !p.Ready {
		if ctx.state.Alive() {
			return Pending()
		}
		return Done(nil)
	}
	return Done(nil)
}

func (w *waitItem) cancel() {
	if c, ok := w.inner.(canceller); ok {
		c.cancel()
	}
}

// futureAdapterItem schedules a plain Future returned from a handler and
// discharges its reply sink on completion.
type futureAdapterItem struct {
	src    Future
	reply  replySink
	once   sync.Once
	result chan FutureResult
}

func (it *futureAdapterItem) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	it.once.Do(func() {
		it.result = make(chan FutureResult, 1)
		go func() {
			r, ok := <-it.src
			if !ok {
				r = FutureResult{Err: ErrCancelled}
			}
			it.result <- r
			task.Wake()
		}()
	})
	select {
	case r := <-it.result:
		it.reply.fulfill(r.Value, r.Err)
		return Done(nil)
	default:
		return Pending()
	}
}

func (it *futureAdapterItem) cancel() {
	it.reply.fulfill(nil, ErrCancelled)
}

// replyingActorFuture schedules a handler-returned ActorFuture with the
// same driver contract as any other spawned future, discharging the reply
// sink when it resolves.
type replyingActorFuture struct {
	inner ActorFuture
	reply replySink
	done  bool
}

func (r *replyingActorFuture) Poll(actor Actor, ctx *Context, task *TaskContext) Poll {
	p := r.inner.Poll(actor, ctx, task)
	if p.Ready {
		r.done = true
		r.reply.fulfill(p.Output, nil)
	}
	return p
}

func (r *replyingActorFuture) cancel() {
	if !r.done {
		r.reply.fulfill(nil, ErrCancelled)
	}
	if c, ok := r.inner.(canceller); ok {
		c.cancel()
	}
}
