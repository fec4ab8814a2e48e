package bollywood

import (
	"go.uber.org/zap"
)

// defaultFairnessCap bounds how many mailbox envelopes a single scheduling
// pass dispatches before yielding back to the select loop, so one
// message-heavy actor cannot starve timers and spawned futures on the same
// process.
const defaultFairnessCap = 64

// process is the single goroutine driving one actor's context: it is the
// only thing that ever calls actor.Started/Stopping/Stopped or polls an
// ActorFuture belonging to this actor, which is what makes exclusive access
// free — there is no lock because there is only one reader.
type process struct {
	pid         *PID
	ctx         *Context
	props       *Props
	engine      *Engine
	actor       Actor
	fairnessCap int
	done        chan struct{}
	logger      *zap.Logger
}

func newProcess(engine *Engine, pid *PID, props *Props, mailbox *Mailbox, logger *zap.Logger, metrics *Metrics) *process {
	p := &process{
		pid:         pid,
		props:       props,
		engine:      engine,
		fairnessCap: defaultFairnessCap,
		done:        make(chan struct{}),
		logger:      logger,
	}
	p.ctx = newContext(engine, pid, mailbox, logger, metrics)
	return p
}

func (p *process) run() {
	defer close(p.done)

	p.actor = p.props.produce(p.ctx)
	if p.actor == nil {
		p.logger.Error("producer returned nil actor", zap.String("pid", p.pid.ID))
		return
	}

	for {
		if p.step() {
			return
		}
	}
}

// step runs one scheduling pass plus (at most) one blocking wait for more
// work, returning true once the actor has reached Stopped. A panic
// anywhere in the pass — a handler, a lifecycle hook, an ActorFuture poll —
// is caught here and converted into an abnormal teardown: the reply of the
// envelope being handled and of every spawned future is failed with
// Cancelled, envelopes still queued are failed with ErrMailboxClosed, the
// lifecycle is forced to Stopped, and Stopped runs if it is reachable at all.
func (p *process) step() (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			p.onPanic(r)
			stopped = true
		}
	}()

	p.schedulingPass()
	if p.ctx.state == StateStopped {
		return true
	}

	var mbox <-chan *envelope
	if !p.ctx.Waiting() {
		mbox = p.ctx.mailbox.Chan()
	}

	select {
	case env, ok := <-mbox:
		if ok {
			p.deliver(env)
		}
	case <-p.ctx.wakeCh:
	}

	return p.ctx.state == StateStopped
}

// schedulingPass implements the fixed poll order: advance the lifecycle
// hook due to fire, drain ready wait-items head first, poll every spawned
// future once in stable order, then dispatch mailbox envelopes up to the
// fairness cap — gated on no wait-item being active.
func (p *process) schedulingPass() {
	c := p.ctx

	c.metrics.setMailboxDepth(p.pid.ID, float64(c.mailbox.Len()))
	c.metrics.setSpawnedFuturesAlive(p.pid.ID, float64(c.registry.len()))

	if c.state == StateStarted {
		p.actor.Started(c)
		if c.state == StateStarted {
			c.state = StateRunning
		}
	}

	if c.state != StateStopped && c.stopRequested.CompareAndSwap(true, false) {
		if c.state != StateStopping {
			c.state = StateStopping
		}
		dir := p.actor.Stopping(c)
		if dir == DirectiveContinue {
			if c.state == StateStopping {
				c.state = StateRunning
			}
		} else {
			p.teardown()
			return
		}
	}

	if c.state == StateStopped {
		return
	}

	for len(c.waitFIFO) > 0 {
		head := c.waitFIFO[0]
		res := head.Poll(p.actor, c, &TaskContext{ctx: c})
		if !res.Ready {
			break
		}
		c.waitFIFO = c.waitFIFO[1:]
	}

	for _, h := range c.registry.order {
		f, ok := c.registry.get(h)
		if !ok {
			continue
		}
		res := f.Poll(p.actor, c, &TaskContext{ctx: c})
		if res.Ready {
			c.registry.complete(h)
		}
	}
	c.registry.compact()

	if c.Waiting() || c.state == StateStopped {
		return
	}

	for n := 0; n < p.fairnessCap; n++ {
		select {
		case env := <-c.mailbox.Chan():
			p.deliver(env)
			if c.Waiting() || c.state == StateStopped {
				return
			}
		default:
			return
		}
	}
}

func (p *process) deliver(env *envelope) {
	defer func() {
		if r := recover(); r != nil {
			env.reply.fulfill(nil, ErrCancelled)
			panic(r)
		}
	}()
	item := &messageItem{msg: env.message, reply: env.reply}
	item.Poll(p.actor, p.ctx, &TaskContext{ctx: p.ctx})
	p.ctx.metrics.incMessagesDispatched()
}

// callStoppedOnce guards against Stopped firing twice — once from a
// graceful teardown and again from a panic caught re-entering the same
// teardown path.
func (p *process) callStoppedOnce() {
	if p.ctx.stoppedCalled.CompareAndSwap(false, true) {
		p.actor.Stopped(p.ctx)
	}
}

// teardown runs the graceful-stop path: cancel every spawned future and
// wait-item in reverse insertion order, fail anything left in the mailbox,
// close it, and run Stopped.
func (p *process) teardown() {
	c := p.ctx
	c.registry.teardown()
	for i := len(c.waitFIFO) - 1; i >= 0; i-- {
		if cc, ok := c.waitFIFO[i].inner.(canceller); ok {
			cc.cancel()
		}
	}
	c.waitFIFO = nil
	c.state = StateStopped
	c.mailbox.Close()
	p.drainMailboxClosed()
	p.callStoppedOnce()
	p.forgetMetrics()
	if p.engine != nil {
		p.engine.remove(p.pid)
	}
}

func (p *process) forgetMetrics() {
	p.ctx.metrics.deleteActor(p.pid.ID)
}

func (p *process) drainMailboxClosed() {
	for {
		select {
		case env := <-p.ctx.mailbox.Chan():
			env.reply.fulfill(nil, ErrMailboxClosed)
		default:
			return
		}
	}
}

// onPanic performs the same teardown a graceful stop would, logging the
// recovered value first, then swallows any further panic from Stopped
// itself so the driving goroutine always exits cleanly.
func (p *process) onPanic(r any) {
	p.logger.Error("actor panicked, terminating",
		zap.String("pid", p.pid.ID),
		zap.Any("panic", r),
	)
	p.ctx.metrics.incHandlerPanics()
	c := p.ctx
	c.registry.teardown()
	for i := len(c.waitFIFO) - 1; i >= 0; i-- {
		if cc, ok := c.waitFIFO[i].inner.(canceller); ok {
			cc.cancel()
		}
	}
	c.waitFIFO = nil
	c.state = StateStopped
	c.mailbox.Close()
	p.drainMailboxClosed()
	func() {
		defer func() { recover() }()
		p.callStoppedOnce()
	}()
	p.forgetMetrics()
	if p.engine != nil {
		p.engine.remove(p.pid)
	}
}
