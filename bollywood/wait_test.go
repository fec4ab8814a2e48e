package bollywood_test

import (
	"testing"
	"time"

	"github.com/lguibr/bollywood/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowMsg struct{}
type fastMsg struct{}

func TestWaitExclusion(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	fastAt := make(chan time.Time, 1)

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		bollywood.RegisterHandler[slowMsg](ctx, func(msg slowMsg, ctx *bollywood.Context) bollywood.MessageResponse {
			assert.False(t, ctx.Waiting())
			ctx.Wait(bollywood.Sleep(100 * time.Millisecond))
			assert.True(t, ctx.Waiting())
			return bollywood.Immediate(nil)
		})
		bollywood.RegisterHandler[fastMsg](ctx, func(msg fastMsg, ctx *bollywood.Context) bollywood.MessageResponse {
			fastAt <- time.Now()
			return bollywood.Immediate(nil)
		})
		return a
	}))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, addr.DoSend(slowMsg{}))
	require.NoError(t, addr.DoSend(fastMsg{}))

	select {
	case at := <-fastAt:
		assert.GreaterOrEqual(t, at.Sub(start), 100*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("fast handler never ran")
	}
}
