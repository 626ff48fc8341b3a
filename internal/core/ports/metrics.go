package ports

import (
	"time"

	"go.trai.ch/retest/internal/core/domain"
)

// Metrics records counters about cache behaviour and test execution.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	CacheHit()
	CacheMiss(reason domain.InvalidationReason)
	CacheEvicted(n int)
	TestExecuted(status domain.TestStatus, duration time.Duration)
	PlanComputed(strategy domain.Strategy, hitRate float64)
	SelectionAccuracy(accuracy float64)
	// Flush writes the collected metrics to the configured sink, if any.
	Flush() error
}
