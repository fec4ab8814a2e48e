package bollywood_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/bollywood/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type incrMsg struct{}
type readCountReq struct{}

// TestSerialAccessNoConcurrentMutation hammers one actor's unsynchronized
// counter from many goroutines via DoSend. If two handler invocations ever
// overlapped, this would either race-detect or undercount; neither happens
// because exactly one goroutine ever touches the actor's state. The test
// reads the counter back through the actor too, never directly.
func TestSerialAccessNoConcurrentMutation(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	counter := 0
	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &baseTestActor{}
		bollywood.RegisterHandler[incrMsg](ctx, func(msg incrMsg, ctx *bollywood.Context) bollywood.MessageResponse {
			counter++ // deliberately unsynchronized: only safe if strictly serial
			return bollywood.Immediate(nil)
		})
		bollywood.RegisterHandler[readCountReq](ctx, func(msg readCountReq, ctx *bollywood.Context) bollywood.MessageResponse {
			return bollywood.Immediate(counter)
		})
		return a
	}))
	require.NoError(t, err)

	const senders = 20
	const perSender = 50

	var wg sync.WaitGroup
	wg.Add(senders)
	for i := 0; i < senders; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				_ = addr.DoSend(incrMsg{})
			}
		}()
	}
	wg.Wait()

	readCount := func() int {
		sendCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		reply, err := addr.Send(sendCtx, readCountReq{})
		if err != nil {
			return -1
		}
		return reply.(int)
	}

	require.Eventually(t, func() bool {
		return readCount() == senders*perSender
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, senders*perSender, readCount())
}
