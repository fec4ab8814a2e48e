package bollywood

import "errors"

// Send errors, returned by the non-blocking and reply-bearing send paths.
var (
	// ErrSendFull is returned by TrySend when the mailbox is at capacity.
	ErrSendFull = errors.New("bollywood: mailbox full")
	// ErrSendClosed is returned when the target actor is stopped or gone.
	ErrSendClosed = errors.New("bollywood: actor stopped")
)

// Mailbox/reply errors, surfaced to a requester awaiting a reply.
var (
	// ErrMailboxClosed is returned to a waiter when the actor stops before
	// producing a reply.
	ErrMailboxClosed = errors.New("bollywood: mailbox closed before reply")
	// ErrMailboxTimeout is returned when a caller-specified wait bound
	// elapses before a reply is produced.
	ErrMailboxTimeout = errors.New("bollywood: reply timed out")
	// ErrCancelled is observed by a waiter whose response-future or
	// spawned future was dropped before completion.
	ErrCancelled = errors.New("bollywood: cancelled")
)

// ErrNoHandler is returned when a message arrives for which the actor has
// not registered a Handler. Unlike Rust's compile-time trait bound, this
// surfaces as a runtime error — see DESIGN.md.
var ErrNoHandler = errors.New("bollywood: no handler registered for message type")

// ErrNilProducer is returned by Engine.Spawn when given nil Props or Props
// with a nil producer.
var ErrNilProducer = errors.New("bollywood: producer cannot be nil")
