package workpool

import (
	"time"

	"github.com/alitto/pond"
	"github.com/prometheus/client_golang/prometheus"
)

// Default sizing applied by Build for unset or non-positive values.
const (
	// MaxRequestQueueSize is the default capacity of the work queue.
	MaxRequestQueueSize = 200

	// MaxThreads is the default maximum number of workers.
	MaxThreads = 50

	// MinThreads is the default minimum number of resident workers.
	MinThreads = 1

	// IdleTimeout is the default time after which an idle worker is
	// reclaimed.
	IdleTimeout = 60 * time.Minute
)

// ThreadPoolBuilder accumulates worker pool sizing parameters.
//
// Builders are not safe for concurrent use; configuration calls and
// Build are expected to be issued sequentially by the owning setup
// code.
type ThreadPoolBuilder struct {
	maxThreads          int
	minThreads          int
	maxRequestQueueSize int
	idleTimeout         time.Duration
	registry            prometheus.Registerer
}

// NewThreadPoolBuilder returns a builder primed with the package
// defaults.
func NewThreadPoolBuilder() *ThreadPoolBuilder {
	return &ThreadPoolBuilder{
		maxThreads:  MaxThreads,
		minThreads:  MinThreads,
		idleTimeout: IdleTimeout,
	}
}

// WithMaxThreads sets the maximum number of workers.
func (b *ThreadPoolBuilder) WithMaxThreads(maxThreads int) *ThreadPoolBuilder {
	b.maxThreads = maxThreads
	return b
}

// WithMinThreads sets the minimum number of resident workers.
func (b *ThreadPoolBuilder) WithMinThreads(minThreads int) *ThreadPoolBuilder {
	b.minThreads = minThreads
	return b
}

// WithMaxRequestQueueSize sets the capacity of the work queue. Submit
// blocks once the queue is full.
func (b *ThreadPoolBuilder) WithMaxRequestQueueSize(queueSize int) *ThreadPoolBuilder {
	b.maxRequestQueueSize = queueSize
	return b
}

// WithIdleTimeout sets how long an idle worker above the minimum is
// kept around.
func (b *ThreadPoolBuilder) WithIdleTimeout(idleTimeout time.Duration) *ThreadPoolBuilder {
	b.idleTimeout = idleTimeout
	return b
}

// Registry sets the Prometheus registerer the pool's utilization
// metrics are published to. Without a registry the pool is built
// uninstrumented.
func (b *ThreadPoolBuilder) Registry(registry prometheus.Registerer) *ThreadPoolBuilder {
	b.registry = registry
	return b
}

// Build materializes the pool. Any non-positive sizing parameter is
// replaced with its default; no error is raised for invalid input.
//
// The returned pool is idle: workers beyond the minimum are only
// spawned as tasks are submitted.
func (b *ThreadPoolBuilder) Build() *WorkerPool {
	if b.maxRequestQueueSize <= 0 {
		b.maxRequestQueueSize = MaxRequestQueueSize
	}

	if b.maxThreads <= 0 {
		b.maxThreads = MaxThreads
	}

	if b.minThreads <= 0 {
		b.minThreads = MinThreads
	}

	if b.idleTimeout <= 0 {
		b.idleTimeout = IdleTimeout
	}

	pool := pond.New(b.maxThreads, b.maxRequestQueueSize,
		pond.MinWorkers(b.minThreads),
		pond.IdleTimeout(b.idleTimeout),
	)

	wp := &WorkerPool{
		pool:          pool,
		maxThreads:    b.maxThreads,
		minThreads:    b.minThreads,
		queueCapacity: b.maxRequestQueueSize,
		idleTimeout:   b.idleTimeout,
	}

	if b.registry != nil {
		wp.register(b.registry)
	}

	return wp
}
