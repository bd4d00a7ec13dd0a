package irrecoverable

import (
	"context"
	"runtime"
	"testing"
)

// testSignalerCtx reports thrown errors as test failures.
type testSignalerCtx struct {
	context.Context
	tb testing.TB
}

func (c testSignalerCtx) sealed() {}

// Throw marks the test failed and exits the calling goroutine, which is
// usually a component worker rather than the test goroutine.
func (c testSignalerCtx) Throw(err error) {
	c.tb.Errorf("unexpected irrecoverable error: %v", err)
	runtime.Goexit()
}

// NewTestSignalerContext derives a cancellable SignalerContext from parent
// for use in tests. The context is also cancelled when the test ends.
func NewTestSignalerContext(tb testing.TB, parent context.Context) (SignalerContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	tb.Cleanup(cancel)
	return testSignalerCtx{Context: ctx, tb: tb}, cancel
}
