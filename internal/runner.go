package internal

import (
	"context"
	"log/slog"
	"sync"
)

// LoopFunc is a single worker's run loop. It must return promptly once ctx
// is canceled.
type LoopFunc func(ctx context.Context, index int)

// RunWorkers starts n independent goroutines, each running fn with its
// own index, until ctx is canceled. Unlike a dispatcher-backed pool,
// there is no shared work channel: each goroutine owns its entire
// claim/execute/report loop, polling independently with no central
// dispatcher.
//
// A panicking fn is recovered and logged; the worker goroutine exits but
// does not bring down the others or the caller.
func RunWorkers(ctx context.Context, n int, fn LoopFunc, log *slog.Logger) DoneChan {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(index int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("worker panic recovered", "worker", index, "err", r)
				}
			}()
			fn(ctx, index)
		}(i)
	}
	return wrapWaitGroup(&wg)
}
