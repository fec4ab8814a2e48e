package bollywood_test

import (
	"testing"

	"github.com/lguibr/bollywood/bollywood"
)

// newTestEngine builds an Engine with the default configuration. NewEngine
// gives every engine its own Prometheus registry, so parallel tests never
// collide on a shared one.
func newTestEngine(t *testing.T) *bollywood.Engine {
	t.Helper()
	engine, err := bollywood.NewEngine()
	if err != nil {
		t.Fatalf("newTestEngine: %v", err)
	}
	return engine
}

// baseTestActor is a minimal Actor for tests that only care about message
// handling, not lifecycle hooks.
type baseTestActor struct {
	bollywood.BaseActor
}
