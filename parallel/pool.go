package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	// Job is one independent unit of work. A non-nil error counts as a
	// failure; logging it is up to the job.
	Job        func() error
	WorkerFunc func(Job)
	WaitFunc   func(done bool) Stats
	CancelFunc func()
)

// Stats counts finished jobs.
type Stats struct {
	Processed uint64
	Errors    uint64
}

func (s Stats) Total() uint64 {
	return s.Processed + s.Errors
}

// Pool fans jobs out to a fixed number of workers. With one worker jobs
// run inline on the caller's goroutine. Do must not be called after
// Wait(true) or Cancel.
type Pool struct {
	workers sync.WaitGroup
	pending sync.WaitGroup

	processed atomic.Uint64
	errors    atomic.Uint64

	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = func(job Job) {
		pool.run(job)
	}
	pool.Wait = func(bool) Stats {
		return pool.stats()
	}
	pool.Cancel = func() {}

	if numWorkers > 1 {
		workChan := make(chan Job, numWorkers)

		for range numWorkers {
			pool.workers.Go(func() {
				for job := range workChan {
					pool.run(job)
					pool.pending.Done()
				}
			})
		}

		pool.Do = func(job Job) {
			pool.pending.Add(1)
			workChan <- job
		}

		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func(done bool) Stats {
			pool.pending.Wait()
			if done {
				pool.Cancel()
				pool.workers.Wait()
			}
			return pool.stats()
		}
	}

	return pool
}

func (p *Pool) run(job Job) {
	if err := job(); err != nil {
		p.errors.Add(1)
		return
	}
	p.processed.Add(1)
}

func (p *Pool) stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Errors:    p.errors.Load(),
	}
}
