package bollywood_test

import (
	"context"
	"testing"
	"time"

	"github.com/lguibr/bollywood/bollywood"
	"github.com/stretchr/testify/require"
)

type readSumReq struct{}

type accumulatorActor struct {
	bollywood.BaseActor
	sum int
}

func TestStreamDrain(t *testing.T) {
	engine := newTestEngine(t)
	defer engine.Shutdown(time.Second)

	addr, err := engine.Spawn(bollywood.NewProps(func(ctx *bollywood.Context) bollywood.Actor {
		a := &accumulatorActor{}
		bollywood.RegisterHandler[int](ctx, func(msg int, ctx *bollywood.Context) bollywood.MessageResponse {
			a.sum += msg
			return bollywood.Immediate(nil)
		})
		bollywood.RegisterHandler[readSumReq](ctx, func(msg readSumReq, ctx *bollywood.Context) bollywood.MessageResponse {
			return bollywood.Immediate(a.sum)
		})

		src := make(chan int, 3)
		src <- 1
		src <- 2
		src <- 3
		close(src)
		bollywood.AddStream[int](ctx, src)

		return a
	}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		sendCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		reply, err := addr.Send(sendCtx, readSumReq{})
		return err == nil && reply.(int) == 6
	}, time.Second, 10*time.Millisecond, "accumulator never reached 6")
}
