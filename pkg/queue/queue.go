// Package queue runs background jobs for the shop.
//
// A job is any type with a Handle method. Register its type once at boot so
// the consumer can rebuild it from the wire, then dispatch from anywhere:
//
//	queue.Register("*jobs.LowStockJob", func() queue.Job { return &jobs.LowStockJob{} })
//	queue.Dispatch(&jobs.LowStockJob{SweetID: 7})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/workerpool"
)

// Job is a unit of background work.
type Job interface {
	Handle() error
}

// Driver stores serialized jobs. The memory driver is the default; Redis
// takes over when QUEUE_DRIVER=redis.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// delayedDriver is the optional extension for drivers that can park a job
// until it is due.
type delayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// FailedJob describes a job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// envelope is the wire format: the registered type name plus the job's own
// JSON fields.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job registry and the dead-letter list.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	pool     *workerpool.Pool
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the storage backend. Call before StartWorkers.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defaultManager.driver = d
	defaultManager.mu.Unlock()
}

// SetMaxRetry changes how many attempts a job gets before dead-lettering.
func SetMaxRetry(n int) {
	defaultManager.mu.Lock()
	defaultManager.maxRetry = n
	defaultManager.mu.Unlock()
}

// Register maps a type name to a constructor so consumers can decode jobs.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defaultManager.registry[name] = factory
	defaultManager.mu.Unlock()
}

// Dispatch enqueues job for immediate processing.
func Dispatch(job Job) error {
	raw, err := encode(job)
	if err != nil {
		return err
	}
	return defaultManager.currentDriver().Push(raw)
}

// DispatchAfter enqueues job to run once delay has passed. Drivers with
// native delay support (Redis) persist it; otherwise a goroutine waits.
func DispatchAfter(job Job, delay time.Duration) {
	d := defaultManager.currentDriver()
	if dd, ok := d.(delayedDriver); ok {
		raw, err := encode(job)
		if err == nil {
			if err := dd.PushDelayed(raw, delay); err == nil {
				return
			}
		}
	}
	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch", "error", err)
		}
	}()
}

// FailedJobs snapshots the dead-letter list.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	return append([]FailedJob(nil), defaultManager.failed...)
}

// StartWorkers launches n consumers feeding a bounded pool of the same
// size. They stop when ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	defaultManager.mu.Lock()
	if defaultManager.pool == nil {
		defaultManager.pool = workerpool.New(n)
	}
	defaultManager.mu.Unlock()

	for i := 0; i < n; i++ {
		go defaultManager.consumeLoop(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func encode(job Job) ([]byte, error) {
	typeName := fmt.Sprintf("%T", job)
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal %s: %w", typeName, err)
	}
	return json.Marshal(envelope{Type: typeName, Payload: payload})
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func (m *Manager) consumeLoop(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		// Run on the pool; under backpressure run inline so the popped job
		// is never dropped.
		payload := raw
		if err := m.pool.SubmitWait(func() { m.handle(payload) }); err != nil {
			m.handle(payload)
		}
	}
}

func (m *Manager) handle(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory := m.registry[env.Type]
	retries := m.maxRetry
	m.mu.RUnlock()

	if factory == nil {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: decode payload", "type", env.Type, "error", err)
		return
	}

	m.execute(job, env.Type, retries)
}

// execute retries with linear backoff, dead-lettering after the last
// attempt fails.
func (m *Manager) execute(job Job, typeName string, retries int) {
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if lastErr = job.Handle(); lastErr == nil {
			logger.Info("queue: job processed", "type", typeName)
			return
		}
		logger.Warn("queue: job failed",
			"type", typeName, "attempt", attempt, "error", lastErr)
		if attempt < retries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	m.persistFailed(job, typeName, lastErr, retries)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}
