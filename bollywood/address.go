package bollywood

import (
	"context"
	"time"
)

// Address is a handle to a running actor's mailbox: the only way anything
// outside the actor's own context can reach it. It is cheap to copy and
// safe to share across goroutines.
type Address struct {
	pid     *PID
	mailbox *Mailbox
}

// PID returns the identity this address targets.
func (a *Address) PID() *PID { return a.pid }

// DoSend delivers msg fire-and-forget; admission never fails on a full
// mailbox (it spills into the overflow queue), only once the actor is
// gone.
func (a *Address) DoSend(msg any) error {
	return a.mailbox.DoSend(&envelope{message: msg, reply: nullReplySink{}})
}

// TrySend delivers msg fire-and-forget, failing immediately with
// ErrSendFull if the bounded mailbox has no room right now.
func (a *Address) TrySend(msg any) error {
	return a.mailbox.TrySend(&envelope{message: msg, reply: nullReplySink{}})
}

// Send delivers msg and blocks until the actor produces a reply, the
// actor's mailbox is closed, or ctx is cancelled. ctx bounds only the wait
// for the reply: while the mailbox is full, enqueueing waits for room or for
// the mailbox to close regardless of ctx.
func (a *Address) Send(ctx context.Context, msg any) (any, error) {
	fut := newReplyFuture()
	if err := a.mailbox.Send(&envelope{message: msg, reply: chanReplySink{fut: fut}}); err != nil {
		return nil, err
	}
	return fut.Wait(ctx)
}

// SendTimeout is Send bounded by a plain duration instead of a context,
// for call sites that do not already carry one. As with Send, d starts once
// the envelope is enqueued.
func (a *Address) SendTimeout(msg any, d time.Duration) (any, error) {
	fut := newReplyFuture()
	if err := a.mailbox.Send(&envelope{message: msg, reply: chanReplySink{fut: fut}}); err != nil {
		return nil, err
	}
	return fut.WaitTimeout(d)
}

// Recipient narrows an Address to exactly one message type M: the Go
// rendering of Recipient<M>, handed to collaborators that should only ever
// be able to send that one kind of message.
type Recipient[M any] struct {
	addr *Address
}

// ToRecipient narrows addr to message type M.
func ToRecipient[M any](addr *Address) Recipient[M] {
	return Recipient[M]{addr: addr}
}

// DoSend delivers msg fire-and-forget, same admission policy as
// Address.DoSend.
func (r Recipient[M]) DoSend(msg M) error {
	if r.addr == nil {
		return ErrSendClosed
	}
	return r.addr.DoSend(msg)
}

// PID returns the identity behind this recipient.
func (r Recipient[M]) PID() *PID {
	if r.addr == nil {
		return nil
	}
	return r.addr.PID()
}
