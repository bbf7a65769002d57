// Package watch turns uncoordinated writes to a legacy database file into a
// bounded stream of ordered, resumable publish scans.
package watch

import (
	"context"
	"time"
)

// DefaultDebounce is how long a burst of file writes is allowed to settle
// before a scan observes the file.
const DefaultDebounce = 2 * time.Second

// Scheduler collapses bursts of change notifications into single scans and
// guarantees scans never overlap: every scan runs on the Run goroutine, so
// single-flight holds by construction.
type Scheduler struct {
	debounce time.Duration
	scan     func(ctx context.Context)
	events   chan struct{}
}

func NewScheduler(debounce time.Duration, scan func(ctx context.Context)) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Scheduler{
		debounce: debounce,
		scan:     scan,
		events:   make(chan struct{}, 1),
	}
}

// Notify records that the watched file changed. Non-blocking and safe to
// call from the watcher goroutine; notifications beyond the one already
// pending are dropped, which is what collapses a burst.
func (s *Scheduler) Notify() {
	select {
	case s.events <- struct{}{}:
	default:
	}
}

// Run performs an immediate catch-up scan (rows written while the process
// was down) and then serves notifications until ctx is cancelled. An
// accepted notification waits out the debounce window so the scan sees the
// file's settled state; notifications raised during the wait are covered by
// that same scan and dropped. A notification raised while a scan is running
// stays pending and triggers one follow-up scan.
func (s *Scheduler) Run(ctx context.Context) {
	s.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.events:
			timer := time.NewTimer(s.debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			// drain the burst this scan is about to observe
			select {
			case <-s.events:
			default:
			}

			s.scan(ctx)
		}
	}
}
