package bollywood

// FutureResult is the payload a plain Future resolves with.
type FutureResult struct {
	Value any
	Err   error
}

// Future is the Go stand-in for "a future whose output is the handler's
// result": a handler that needs to do async work hands back a channel it
// will eventually send exactly one FutureResult into (and then, by
// convention, close or simply stop sending — the engine only ever reads
// the first value).
type Future <-chan FutureResult

type responseKind uint8

const (
	responseImmediate responseKind = iota
	responseFuture
	responseActorFuture
)

// MessageResponse is the tagged union a Handler returns:
// an immediate value, a Future, or an ActorFuture. The engine inspects the
// tag and routes to the matching resolver in resolveResponse.
type MessageResponse struct {
	kind        responseKind
	value       any
	err         error
	future      Future
	actorFuture ActorFuture
}

// Immediate wraps a value that is already available; it is written to the
// reply sink the moment the handler returns.
func Immediate(v any) MessageResponse {
	return MessageResponse{kind: responseImmediate, value: v}
}

// ImmediateErr wraps an error that is already available.
func ImmediateErr(err error) MessageResponse {
	return MessageResponse{kind: responseImmediate, err: err}
}

// FromFuture defers resolution to a Future: the engine schedules a thin
// adapter in the spawn registry and writes to the reply sink on completion.
func FromFuture(f Future) MessageResponse {
	return MessageResponse{kind: responseFuture, future: f}
}

// FromActorFuture defers resolution to an ActorFuture, scheduled with the
// same (actor, ctx, task) driver contract as any other spawned future.
func FromActorFuture(f ActorFuture) MessageResponse {
	return MessageResponse{kind: responseActorFuture, actorFuture: f}
}

// resolveResponse implements resolution policy.
func resolveResponse(ctx *Context, resp MessageResponse, reply replySink) {
	switch resp.kind {
	case responseImmediate:
		reply.fulfill(resp.value, resp.err)
	case responseFuture:
		handle := ctx.spawnItem(&futureAdapterItem{src: resp.future, reply: reply})
		_ = handle
	case responseActorFuture:
		handle := ctx.spawnItem(&replyingActorFuture{inner: resp.actorFuture, reply: reply})
		_ = handle
	default:
		reply.fulfill(nil, nil)
	}
}
