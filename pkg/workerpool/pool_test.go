package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/sweetshop/pkg/workerpool"
)

func TestTasksRun(t *testing.T) {
	p := workerpool.New(4)
	defer p.Shutdown()

	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.SubmitWait(func() {
			defer wg.Done()
			n.Add(1)
		})
		if err != nil {
			wg.Done()
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()

	if n.Load() != 20 {
		t.Errorf("ran %d tasks, want 20", n.Load())
	}
}

func TestSubmitFullReturnsError(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	// Occupy the single worker and fill the buffer.
	p.SubmitWait(func() { <-block }) //nolint:errcheck
	time.Sleep(20 * time.Millisecond) // let the worker dequeue it
	for i := 0; i < 2; i++ {
		p.Submit(func() { <-block }) //nolint:errcheck
	}

	err := p.Submit(func() {})
	close(block)
	if err != workerpool.ErrPoolFull {
		t.Errorf("err = %v, want ErrPoolFull", err)
	}
}

func TestShutdownDrains(t *testing.T) {
	p := workerpool.New(2)

	var n atomic.Int32
	for i := 0; i < 4; i++ {
		p.SubmitWait(func() { //nolint:errcheck
			time.Sleep(10 * time.Millisecond)
			n.Add(1)
		})
	}

	p.Shutdown()
	if n.Load() != 4 {
		t.Errorf("shutdown should wait for in-flight tasks, ran %d of 4", n.Load())
	}

	if err := p.Submit(func() {}); err != workerpool.ErrPoolClosed {
		t.Errorf("submit after shutdown = %v, want ErrPoolClosed", err)
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	p.SubmitWait(func() { panic("boom") }) //nolint:errcheck

	done := make(chan struct{})
	p.SubmitWait(func() { close(done) }) //nolint:errcheck

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("worker did not survive panicking task")
	}
}
