// Package metrics exports retest counters in the Prometheus text format.
package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implements ports.Metrics on a private registry.
// Flush writes a node_exporter textfile when a path is configured and is a no-op otherwise.
type Prometheus struct {
	registry *prometheus.Registry
	textfile string

	cacheHits     prometheus.Counter
	cacheMisses   *prometheus.CounterVec
	evictions     prometheus.Counter
	testsExecuted *prometheus.CounterVec
	testDuration  prometheus.Histogram
	plans         *prometheus.CounterVec
	hitRate       prometheus.Gauge
	accuracy      prometheus.Gauge
}

// New creates the collectors. textfile may be empty.
func New(textfile string) *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		textfile: textfile,
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "retest_cache_hits_total",
			Help: "Cache lookups that returned a valid result",
		}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retest_cache_misses_total",
			Help: "Cache lookups that failed, by invalidation reason",
		}, []string{"reason"}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "retest_cache_evictions_total",
			Help: "Cache entries evicted by age or size",
		}),
		testsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retest_tests_executed_total",
			Help: "Test files executed, by status",
		}, []string{"status"}),
		testDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "retest_test_duration_seconds",
			Help:    "Duration of executed test files in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		}),
		plans: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retest_plans_total",
			Help: "Execution plans computed, by strategy",
		}, []string{"strategy"}),
		hitRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retest_plan_cache_hit_rate",
			Help: "Cache hit rate of the last computed plan",
		}),
		accuracy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retest_selection_accuracy",
			Help: "Accuracy of the last verification run",
		}),
	}
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) CacheHit() {
	p.cacheHits.Inc()
}

func (p *Prometheus) CacheMiss(reason domain.InvalidationReason) {
	p.cacheMisses.WithLabelValues(string(reason)).Inc()
}

func (p *Prometheus) CacheEvicted(n int) {
	if n > 0 {
		p.evictions.Add(float64(n))
	}
}

func (p *Prometheus) TestExecuted(status domain.TestStatus, duration time.Duration) {
	p.testsExecuted.WithLabelValues(string(status)).Inc()
	p.testDuration.Observe(duration.Seconds())
}

func (p *Prometheus) PlanComputed(strategy domain.Strategy, hitRate float64) {
	p.plans.WithLabelValues(string(strategy)).Inc()
	p.hitRate.Set(hitRate)
}

func (p *Prometheus) SelectionAccuracy(accuracy float64) {
	p.accuracy.Set(accuracy)
}

// Flush writes the registry to the textfile.
func (p *Prometheus) Flush() error {
	if p.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.textfile), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrExecution,
			zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", p.textfile))
	}
	if err := prometheus.WriteToTextfile(p.textfile, p.registry); err != nil {
		return errors.Join(domain.ErrExecution,
			zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", p.textfile))
	}
	return nil
}
