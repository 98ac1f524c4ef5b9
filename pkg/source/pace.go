package source

import (
	"context"
	"sync"
	"time"
)

// pacer spaces outbound API requests a fixed delay apart.
type pacer struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// wait blocks until the delay since the previous request has elapsed,
// or until the context is cancelled.
func (p *pacer) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if remaining := p.delay - time.Since(p.last); remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	p.last = time.Now()
	return nil
}
