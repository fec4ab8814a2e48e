package bollywood_test

import (
	"testing"
	"time"

	"github.com/lguibr/bollywood/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingMsg struct{}

func TestDelayedNotify(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	start := time.Now()
	fired := make(chan time.Time, 1)

	_, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		bollywood.RegisterHandler[pingMsg](ctx, func(msg pingMsg, ctx *bollywood.Context) bollywood.MessageResponse {
			fired <- time.Now()
			return bollywood.Immediate(nil)
		})
		ctx.NotifyLater(pingMsg{}, 50*time.Millisecond)
		return a
	}))
	require.NoError(t, err)

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("delayed ping never dispatched")
	}
}

type gatedCancelActor struct {
	bollywood.BaseActor
	startGate chan struct{}
	handleCh  chan bollywood.SpawnHandle
	invoked   chan struct{}
}

func (a *gatedCancelActor) Started(ctx *bollywood.Context) {
	h := ctx.RunLater(200*time.Millisecond, func(ctx *bollywood.Context) {
		a.invoked <- struct{}{}
	})
	a.handleCh <- h
	<-a.startGate
}

type cancelReq struct {
	handle bollywood.SpawnHandle
}

func TestCancelDelayed(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	invoked := make(chan struct{}, 1)
	handleCh := make(chan bollywood.SpawnHandle, 1)
	startGate := make(chan struct{})

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &gatedCancelActor{startGate: startGate, handleCh: handleCh, invoked: invoked}
		bollywood.RegisterHandler[cancelReq](ctx, func(msg cancelReq, ctx *bollywood.Context) bollywood.MessageResponse {
			ctx.Cancel(msg.handle)
			return bollywood.Immediate(nil)
		})
		return a
	}))
	require.NoError(t, err)

	handle := <-handleCh
	close(startGate)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, addr.DoSend(cancelReq{handle: handle}))

	select {
	case <-invoked:
		t.Fatal("cancelled run_later closure still fired")
	case <-time.After(250 * time.Millisecond):
	}
}
