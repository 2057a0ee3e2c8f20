// Package workpool builds bounded-capacity worker pools for request
// processing.
//
// The pool itself is a pass-through to the stock alitto/pond
// bounded-queue worker pool; this package only resolves sizing
// parameters and optionally wires the pool's utilization counters
// into a Prometheus registry.
//
// A builder accumulates sizing parameters through chained setters and
// materializes the pool exactly once:
//
//	pool := workpool.NewThreadPoolBuilder().
//		WithMaxThreads(100).
//		WithMaxRequestQueueSize(500).
//		Registry(registry).
//		Build()
//
// Non-positive sizing values are silently replaced with the package
// defaults at build time rather than rejected.
package workpool
