package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func startScheduler(t *testing.T, debounce time.Duration) (*Scheduler, *atomic.Int64, context.CancelFunc) {
	t.Helper()

	var scans atomic.Int64
	s := NewScheduler(debounce, func(ctx context.Context) {
		scans.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return s, &scans, cancel
}

func waitForScans(t *testing.T, scans *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if scans.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d scans, got %d", want, scans.Load())
}

func TestImmediateScanAtStartup(t *testing.T) {
	_, scans, _ := startScheduler(t, 50*time.Millisecond)
	waitForScans(t, scans, 1)
}

func TestBurstCollapsesToOneScan(t *testing.T) {
	s, scans, _ := startScheduler(t, 100*time.Millisecond)
	waitForScans(t, scans, 1) // startup scan

	// a burst of writes well inside one debounce window
	for i := 0; i < 20; i++ {
		s.Notify()
		time.Sleep(time.Millisecond)
	}

	waitForScans(t, scans, 2)
	// give a straggler scan the chance to show up (it must not)
	time.Sleep(300 * time.Millisecond)
	if got := scans.Load(); got != 2 {
		t.Fatalf("scans = %d, want exactly 2 (startup + one for the burst)", got)
	}
}

func TestSpacedEventsEachScan(t *testing.T) {
	s, scans, _ := startScheduler(t, 20*time.Millisecond)
	waitForScans(t, scans, 1) // startup scan

	for i := 0; i < 3; i++ {
		s.Notify()
		waitForScans(t, scans, int64(2+i))
		time.Sleep(50 * time.Millisecond) // well past the window
	}

	if got := scans.Load(); got != 4 {
		t.Fatalf("scans = %d, want 4 (startup + 3 spaced events)", got)
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	// no Run loop consuming: Notify must still return
	s := NewScheduler(time.Second, func(ctx context.Context) {})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Notify()
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var scans atomic.Int64
	s := NewScheduler(10*time.Millisecond, func(ctx context.Context) { scans.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
