// Package workerpool runs tasks on a fixed set of goroutines with
// backpressure. The queue consumers push every job through a Pool so a burst
// of low-stock alerts cannot spawn unbounded goroutines next to the request
// path.
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull means every worker is busy and the task buffer is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed means Shutdown has already been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool executes submitted tasks on a bounded number of workers.
type Pool struct {
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	stop  sync.Once
}

// New starts size workers. The task buffer holds twice the worker count so
// short bursts queue instead of failing.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		tasks: make(chan func(), size*2),
		done:  make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				run(task)
			}
		}()
	}
	return p
}

// Submit enqueues task without blocking. It fails with ErrPoolFull when the
// buffer is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is accepted or the pool shuts down.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown rejects further tasks and waits for in-flight ones to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.stop.Do(func() {
		close(p.done)
		close(p.tasks)
		p.wg.Wait()
	})
}

// run isolates a task panic so one bad job cannot take a worker down.
func run(task func()) {
	defer func() { _ = recover() }()
	task()
}
