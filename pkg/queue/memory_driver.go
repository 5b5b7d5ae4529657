package queue

import (
	"context"
	"errors"
)

// ErrBufferFull is returned by MemoryDriver.Push when the in-process buffer
// has no room left. The Redis driver never returns it.
var ErrBufferFull = errors.New("queue: memory buffer full")

const memoryBufferSize = 1024

// MemoryDriver keeps jobs in a process-local channel. It is the default for
// development and tests; anything still buffered is lost on restart.
type MemoryDriver struct {
	jobs chan []byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, memoryBufferSize)}
}

// Push enqueues the payload, failing fast instead of blocking the caller
// when the buffer is saturated.
func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return ErrBufferFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
