package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"campusgate/internal/config"
)

func TestSchedulerDisabledDoesNothing(t *testing.T) {
	s := NewScheduler(nil, &config.CleanupConfig{
		Enabled:  false,
		Interval: time.Hour,
	})

	// No job goroutine is launched, so no nil service is ever dereferenced
	s.Start()
	s.Stop()
}

func TestIntervalTaskRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil, &config.CleanupConfig{
		Enabled:  true,
		Interval: 10 * time.Millisecond,
	})

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		s.runIntervalTask(10*time.Millisecond, "test_task", func() {
			runs.Add(1)
		})
		close(done)
	}()

	// The first run happens before the first tick
	deadline := time.After(time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("Expected at least 2 runs, got %d", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Task did not stop after Stop")
	}
}
