package position

import (
	"context"
	"fmt"
	"sync"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

// Watch is a handle on a continuous position subscription. Stop is
// idempotent and safe to call during teardown.
type Watch struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Stop cancels the watch and waits for its delivery goroutine to drain.
func (w *Watch) Stop() {
	w.once.Do(w.cancel)
	<-w.done
}

// StartWatch begins continuous acquisition, invoking onUpdate for each fix in
// platform order and replacing the cached position each time.
//
// Only one watch is active per provider: starting a new watch stops the
// previous one. The watch also ends when ctx is cancelled, so tying ctx to
// the owning lifecycle guarantees release on teardown.
func (p *Provider) StartWatch(ctx context.Context, onUpdate func(domain.Coordinate), opts Options) (*Watch, error) {
	if !p.Supported() {
		return nil, domain.ErrCapabilityUnsupported
	}
	if onUpdate == nil {
		return nil, fmt.Errorf("start watch: onUpdate must not be nil")
	}

	watchCtx, cancel := context.WithCancel(ctx)

	fixes, err := p.source.WatchFixes(watchCtx, ports.FixRequest{HighAccuracy: opts.HighAccuracy})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start watch: %w", err)
	}

	w := &Watch{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	prev := p.watch
	p.watch = w
	p.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}

	go func() {
		defer close(w.done)
		for fix := range fixes {
			if fix.Validate() != nil {
				continue
			}
			p.setCached(fix)
			onUpdate(fix)
		}
	}()

	return w, nil
}

// StopWatch stops the active watch, if any. No-op when nothing is watching.
func (p *Provider) StopWatch() {
	p.mu.Lock()
	w := p.watch
	p.watch = nil
	p.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
