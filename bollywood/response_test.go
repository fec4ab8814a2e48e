package bollywood_test

import (
	"context"
	"testing"
	"time"

	"github.com/lguibr/bollywood/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type futureReq struct{ release chan bollywood.FutureResult }

func TestReplyFromFuture(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		bollywood.RegisterHandler[futureReq](ctx, func(msg futureReq, ctx *bollywood.Context) bollywood.MessageResponse {
			return bollywood.FromFuture(msg.release)
		})
		return a
	}))
	require.NoError(t, err)

	release := make(chan bollywood.FutureResult, 1)
	release <- bollywood.FutureResult{Value: 42}

	sendCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := addr.Send(sendCtx, futureReq{release: release})
	require.NoError(t, err)
	assert.Equal(t, 42, reply)
}

func TestReplyObservesCancelledWhenActorStopsFirst(t *testing.T) {
	engine := newTestEngine(t)

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		bollywood.RegisterHandler[futureReq](ctx, func(msg futureReq, ctx *bollywood.Context) bollywood.MessageResponse {
			return bollywood.FromFuture(msg.release) // release is never written to
		})
		return a
	}))
	require.NoError(t, err)

	release := make(chan bollywood.FutureResult)

	sendCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	replyCh := make(chan error, 1)
	go func() {
		_, sendErr := addr.Send(sendCtx, futureReq{release: release})
		replyCh <- sendErr
	}()

	time.Sleep(30 * time.Millisecond)
	engine.Stop(addr.PID())

	select {
	case err := <-replyCh:
		assert.ErrorIs(t, err, bollywood.ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("reply never resolved after the actor stopped")
	}
}

type cancelTwice struct{}

func TestCancelIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	results := make(chan [2]bool, 1)

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		handle := ctx.RunLater(time.Hour, func(ctx *bollywood.Context) {})
		bollywood.RegisterHandler[cancelTwice](ctx, func(msg cancelTwice, ctx *bollywood.Context) bollywood.MessageResponse {
			first := ctx.Cancel(handle)
			second := ctx.Cancel(handle)
			results <- [2]bool{first, second}
			return bollywood.Immediate(nil)
		})
		return a
	}))
	require.NoError(t, err)

	require.NoError(t, addr.DoSend(cancelTwice{}))

	select {
	case r := <-results:
		assert.True(t, r[0])  // the handle was live: cancel succeeds
		assert.False(t, r[1]) // already gone: second cancel is a no-op, not an error
	case <-time.After(time.Second):
		t.Fatal("cancel handler never ran")
	}
}
