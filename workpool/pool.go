package workpool

import (
	"net/http"
	"time"

	"github.com/alitto/pond"
)

// WorkerPool is a bounded-queue worker pool. All scheduling is
// delegated to the underlying pond pool; this type only records the
// resolved sizing and exposes the pass-through surface the module
// needs.
type WorkerPool struct {
	pool *pond.WorkerPool

	maxThreads    int
	minThreads    int
	queueCapacity int
	idleTimeout   time.Duration
}

// Submit enqueues a task, blocking while the work queue is full.
func (p *WorkerPool) Submit(task func()) {
	p.pool.Submit(task)
}

// TrySubmit enqueues a task if queue space is available and reports
// whether the task was accepted.
func (p *WorkerPool) TrySubmit(task func()) bool {
	return p.pool.TrySubmit(task)
}

// SubmitAndWait enqueues a task and blocks until it has completed.
func (p *WorkerPool) SubmitAndWait(task func()) {
	p.pool.SubmitAndWait(task)
}

// Stop shuts the pool down without waiting for queued tasks.
func (p *WorkerPool) Stop() {
	p.pool.Stop()
}

// StopAndWait shuts the pool down after draining queued tasks.
func (p *WorkerPool) StopAndWait() {
	p.pool.StopAndWait()
}

// RunningWorkers returns the number of currently live workers.
func (p *WorkerPool) RunningWorkers() int {
	return p.pool.RunningWorkers()
}

// IdleWorkers returns the number of live workers waiting for tasks.
func (p *WorkerPool) IdleWorkers() int {
	return p.pool.IdleWorkers()
}

// WaitingTasks returns the number of tasks sitting in the queue.
func (p *WorkerPool) WaitingTasks() uint64 {
	return p.pool.WaitingTasks()
}

// MaxThreads returns the resolved maximum number of workers.
func (p *WorkerPool) MaxThreads() int {
	return p.maxThreads
}

// MinThreads returns the resolved minimum number of workers.
func (p *WorkerPool) MinThreads() int {
	return p.minThreads
}

// QueueCapacity returns the resolved capacity of the work queue.
func (p *WorkerPool) QueueCapacity() int {
	return p.queueCapacity
}

// IdleTimeout returns the resolved idle worker timeout.
func (p *WorkerPool) IdleTimeout() time.Duration {
	return p.idleTimeout
}

// Middleware runs each request through the pool, bounding the number
// of concurrently handled requests to the pool's worker limit. The
// calling connection goroutine blocks until its task completes.
func (p *WorkerPool) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.pool.SubmitAndWait(func() {
			next.ServeHTTP(w, r)
		})
	})
}
