package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolCounts(t *testing.T) {
	for _, workers := range []int{1, 4} {
		pool := Start(workers)

		var ran atomic.Int64
		for i := range 50 {
			pool.Do(func() error {
				ran.Add(1)
				if i%5 == 0 {
					return errors.New("fail")
				}
				return nil
			})
		}

		stats := pool.Wait(true)
		if ran.Load() != 50 {
			t.Errorf("%d workers: expected 50 jobs run, got %d", workers, ran.Load())
		}
		if stats.Processed != 40 || stats.Errors != 10 {
			t.Errorf("%d workers: expected 40/10, got %d/%d", workers, stats.Processed, stats.Errors)
		}
		if stats.Total() != 50 {
			t.Errorf("%d workers: expected total 50, got %d", workers, stats.Total())
		}
	}
}

func TestPoolWaitKeepsWorkers(t *testing.T) {
	pool := Start(3)

	pool.Do(func() error { return nil })
	if stats := pool.Wait(false); stats.Processed != 1 {
		t.Fatalf("Expected 1 processed after first wait, got %d", stats.Processed)
	}

	pool.Do(func() error { return nil })
	if stats := pool.Wait(true); stats.Processed != 2 {
		t.Errorf("Expected 2 processed after second wait, got %d", stats.Processed)
	}

	// Cancel is idempotent.
	pool.Cancel()
}

func TestPoolDefaultWorkers(t *testing.T) {
	pool := Start(0)
	pool.Do(func() error { return nil })
	if stats := pool.Wait(true); stats.Total() != 1 {
		t.Errorf("Expected 1 job, got %d", stats.Total())
	}
}
