package bollywood

import "sync"

// defaultMailboxCapacity is the bounded-channel size used when Props and
// EngineConfig both leave it unset.
const defaultMailboxCapacity = 1024

// Mailbox is an actor's ordered envelope queue. It is backed by
// a fixed-capacity channel that TrySend/Send address directly, plus an
// overflow queue that DoSend spills into so an unbounded sender can never
// fail to admit.
//
// FIFO is preserved per send-path: everything that goes directly into ch
// stays in arrival order, and everything spilled into the overflow queue is
// drained into ch by a single feeder goroutine, also preserving arrival
// order. Interleaving DoSend with TrySend/Send from the same sender can
// reorder relative to each other across the two paths; the ordering
// guarantee only covers "a single sender" using its normal send path, not
// mixed usage.
type Mailbox struct {
	ch      chan *envelope
	closeCh chan struct{}
	closed  boolFlag
	once    sync.Once

	overflowMu    sync.Mutex
	overflowCond  *sync.Cond
	overflow      []*envelope
	feederStarted boolFlag
}

// boolFlag is a tiny atomic bool without importing sync/atomic's typed
// wrapper everywhere it's needed for a single-word flag.
type boolFlag struct {
	mu sync.Mutex
	v  bool
}

func (b *boolFlag) set(v bool) {
	b.mu.Lock()
	b.v = v
	b.mu.Unlock()
}

func (b *boolFlag) get() bool {
	b.mu.Lock()
	v := b.v
	b.mu.Unlock()
	return v
}

func (b *boolFlag) cas(old, new bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.v != old {
		return false
	}
	b.v = new
	return true
}

// NewMailbox creates a mailbox whose directly-addressed channel has the
// given capacity. Capacity 0 behaves like a rendezvous channel: Send blocks
// until a receive happens, TrySend almost always reports Full.
func NewMailbox(capacity int) *Mailbox {
	if capacity < 0 {
		capacity = 0
	}
	m := &Mailbox{
		ch:      make(chan *envelope, capacity),
		closeCh: make(chan struct{}),
	}
	m.overflowCond = sync.NewCond(&m.overflowMu)
	return m
}

// Chan exposes the channel the process loop selects on.
func (m *Mailbox) Chan() <-chan *envelope { return m.ch }

// Closed reports whether the mailbox has been torn down.
func (m *Mailbox) Closed() bool { return m.closed.get() }

func (m *Mailbox) startFeeder() {
	if !m.feederStarted.cas(false, true) {
		return
	}
	go func() {
		for {
			m.overflowMu.Lock()
			for len(m.overflow) == 0 && !m.closed.get() {
				m.overflowCond.Wait()
			}
			if len(m.overflow) == 0 {
				m.overflowMu.Unlock()
				return
			}
			env := m.overflow[0]
			m.overflow = m.overflow[1:]
			m.overflowMu.Unlock()

			select {
			case m.ch <- env:
			case <-m.closeCh:
				return
			}
		}
	}()
}

// DoSend admits a message unconditionally (unbounded, admission
// always succeeds). It never blocks the caller.
func (m *Mailbox) DoSend(env *envelope) error {
	if m.closed.get() {
		return ErrSendClosed
	}
	select {
	case m.ch <- env:
		return nil
	default:
	}
	m.startFeeder()
	m.overflowMu.Lock()
	m.overflow = append(m.overflow, env)
	m.overflowCond.Signal()
	m.overflowMu.Unlock()
	return nil
}

// TrySend admits a message only if the bounded channel has room right now.
func (m *Mailbox) TrySend(env *envelope) error {
	if m.closed.get() {
		return ErrSendClosed
	}
	select {
	case m.ch <- env:
		return nil
	default:
		return ErrSendFull
	}
}

// Send admits a message, blocking the caller until there is room or the
// mailbox closes (bounded sender: enqueue suspends on full).
func (m *Mailbox) Send(env *envelope) error {
	if m.closed.get() {
		return ErrSendClosed
	}
	select {
	case m.ch <- env:
		return nil
	case <-m.closeCh:
		return ErrSendClosed
	}
}

// Len reports the number of envelopes currently queued, across both the
// directly-addressed channel and the overflow spillover.
func (m *Mailbox) Len() int {
	m.overflowMu.Lock()
	overflow := len(m.overflow)
	m.overflowMu.Unlock()
	return len(m.ch) + overflow
}

// Close tears the mailbox down: further sends fail with ErrSendClosed and
// the feeder goroutine, if running, exits.
func (m *Mailbox) Close() {
	m.once.Do(func() {
		m.closed.set(true)
		close(m.closeCh)
		m.overflowMu.Lock()
		m.overflowCond.Broadcast()
		m.overflowMu.Unlock()
	})
}
