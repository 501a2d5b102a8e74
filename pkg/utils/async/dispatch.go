package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/utils/errutil"
)

// Group runs handlers in background goroutines. Handlers get a context detached from the
// caller's cancellation that keeps its values (logger, Sentry hub).
type Group struct {
	wg sync.WaitGroup
}

// Dispatch executes handler asynchronously. Errors and panics are logged and reported.
func (g *Group) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := context.WithoutCancel(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async handler", goerr.V("panic", r)), "async handler panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}

// Wait blocks until every dispatched handler has returned
func (g *Group) Wait() {
	g.wg.Wait()
}
