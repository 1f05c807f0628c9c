package workers

import (
	"context"
	"sync"
)

// Prober checks connectivity until its context is done.
type Prober interface {
	Run(ctx context.Context)
}

type proberWorker struct {
	prober Prober

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProberWorker runs prober in the background.
func NewProberWorker(prober Prober) Worker {
	return &proberWorker{prober: prober}
}

// Run implements Worker.
func (w *proberWorker) Run(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		w.prober.Run(ctx)
	}()
}

// Stop implements Worker.
func (w *proberWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
