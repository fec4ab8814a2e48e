package bollywood

// Producer constructs a fresh Actor value. It runs once, on the process
// goroutine, right before Started fires — the usual place to call
// RegisterHandler for every message type the actor accepts.
type Producer func(ctx *Context) Actor

// Props bundles everything Engine.Spawn needs to start a new actor:
// how to construct it, and how big its mailbox should be.
type Props struct {
	produce         Producer
	mailboxCapacity int
}

// PropsOption customizes a Props returned by NewProps.
type PropsOption func(*Props)

// WithMailboxCapacity overrides the default bounded-channel size backing
// the actor's mailbox.
func WithMailboxCapacity(capacity int) PropsOption {
	return func(p *Props) { p.mailboxCapacity = capacity }
}

// NewProps builds a Props from a producer function, applying any options.
func NewProps(producer Producer, opts ...PropsOption) *Props {
	p := &Props{produce: producer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
