package notify

import (
	"sync"
	"time"
)

// Breaker trips after a run of consecutive publish failures and holds the
// channel closed for a cooldown. After the cooldown a single probe request
// is let through; its outcome decides whether the breaker closes again.
type Breaker struct {
	mu sync.Mutex

	failThreshold int
	openFor       time.Duration

	consecutiveFails int
	openUntil        time.Time
	probeInFlight    bool
}

func NewBreaker(threshold int, openFor time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if openFor <= 0 {
		openFor = 15 * time.Second
	}
	return &Breaker{failThreshold: threshold, openFor: openFor}
}

// TryAcquire reports whether a send may proceed right now.
func (b *Breaker) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return true
	}
	if time.Now().Before(b.openUntil) {
		return false
	}
	// cooldown elapsed: admit one probe at a time
	if b.probeInFlight {
		return false
	}
	b.probeInFlight = true
	return true
}

func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	b.consecutiveFails = 0
	b.openUntil = time.Time{}
	b.probeInFlight = false
	b.mu.Unlock()
}

func (b *Breaker) OnFailure() {
	b.mu.Lock()
	if b.probeInFlight {
		// failed probe re-opens for a full cooldown
		b.openUntil = time.Now().Add(b.openFor)
		b.probeInFlight = false
		b.mu.Unlock()
		return
	}

	b.consecutiveFails++
	if b.consecutiveFails >= b.failThreshold {
		b.openUntil = time.Now().Add(b.openFor)
	}
	b.mu.Unlock()
}
