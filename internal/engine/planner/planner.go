// Package planner decides which tests must run and which can be served from cache.
package planner

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.trai.ch/retest/internal/engine/cache"
	"go.trai.ch/retest/internal/engine/changes"
)

// Options controls a single planning pass.
type Options struct {
	// Force selects every discovered test regardless of changes.
	Force bool
	// BaseRef overrides the configured base ref when set.
	BaseRef string
	// IncludeWorkingTree unions uncommitted changes into the change set.
	IncludeWorkingTree bool
}

// Planner combines the change set, impact analysis and cache validity into a plan.
type Planner struct {
	cfg      *domain.Config
	detector *changes.Detector
	analyzer *analyzer.Analyzer
	cache    *cache.Cache
	metrics  ports.Metrics
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewPlanner creates a new Planner.
func NewPlanner(
	cfg *domain.Config,
	detector *changes.Detector,
	analyzer *analyzer.Analyzer,
	cache *cache.Cache,
	metrics ports.Metrics,
	tracer ports.Tracer,
	logger ports.Logger,
) *Planner {
	return &Planner{
		cfg:      cfg,
		detector: detector,
		analyzer: analyzer,
		cache:    cache,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// DefaultOptions returns the options derived from the configuration.
func (p *Planner) DefaultOptions() Options {
	return Options{
		BaseRef:            p.cfg.Git.BaseRef,
		IncludeWorkingTree: p.cfg.Git.IncludeWorkingTree,
	}
}

// Plan computes the execution plan for one run.
//
// A forced plan runs every test. An empty change set runs nothing and reuses prior
// results. Otherwise every affected test is checked against the cache; changed test
// files always run.
func (p *Planner) Plan(ctx context.Context, opts Options) (domain.ExecutionPlan, error) {
	ctx, span := p.tracer.Start(ctx, "plan")
	defer span.End()

	if opts.BaseRef == "" {
		opts.BaseRef = p.cfg.Git.BaseRef
	}

	var cs domain.ChangeSet
	if !opts.Force {
		var err error
		cs, err = p.detectChanges(ctx, opts)
		if err != nil {
			span.RecordError(err)
			return domain.ExecutionPlan{}, err
		}
	}

	if err := p.buildGraph(ctx); err != nil {
		span.RecordError(err)
		return domain.ExecutionPlan{}, err
	}

	var (
		plan domain.ExecutionPlan
		err  error
	)
	switch {
	case opts.Force:
		plan = p.fullPlan()
	case cs.IsEmpty():
		plan = p.cachedPlan()
	default:
		plan, err = p.incrementalPlan(cs)
		if err != nil {
			span.RecordError(err)
			return domain.ExecutionPlan{}, err
		}
	}
	plan.ChangeSet = cs
	plan.EstimatedDuration = p.estimate(plan.TestsToRun)

	span.SetAttribute("strategy", string(plan.Strategy))
	span.SetAttribute("tests_to_run", len(plan.TestsToRun))
	span.SetAttribute("tests_from_cache", len(plan.TestsFromCache))
	p.metrics.PlanComputed(plan.Strategy, plan.CacheHitRate)
	p.logger.Debug(fmt.Sprintf("%s plan: %d to run, %d from cache", plan.Strategy, len(plan.TestsToRun), len(plan.TestsFromCache)))
	return plan, nil
}

func (p *Planner) detectChanges(ctx context.Context, opts Options) (domain.ChangeSet, error) {
	ctx, span := p.tracer.Start(ctx, "detect-changes", ports.WithAttribute("base_ref", opts.BaseRef))
	defer span.End()

	cs, err := p.detector.Detect(ctx, opts.BaseRef, opts.IncludeWorkingTree)
	if err != nil {
		span.RecordError(err)
		return domain.ChangeSet{}, err
	}
	span.SetAttribute("changed_files", cs.Len())
	return cs, nil
}

func (p *Planner) buildGraph(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "build-graph")
	defer span.End()

	if err := p.analyzer.BuildGraph(ctx, p.cfg.Sources, p.cfg.Tests); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttribute("files", len(p.analyzer.Files()))
	return nil
}

func (p *Planner) fullPlan() domain.ExecutionPlan {
	tests := p.analyzer.Tests()
	coverage := make(map[string]domain.TestCoverage, len(tests))
	for _, t := range tests {
		coverage[t] = p.analyzer.Coverage(t)
	}
	return domain.ExecutionPlan{
		Strategy:       domain.StrategyFull,
		TestsToRun:     nonNil(tests),
		TestsFromCache: []string{},
		AffectedFiles:  p.analyzer.Files(),
		Reason:         fmt.Sprintf("full run of %d tests", len(tests)),
		CachedResults:  map[string]domain.TestResult{},
		Coverage:       coverage,
	}
}

// cachedPlan reuses the stored result of every test that has one.
func (p *Planner) cachedPlan() domain.ExecutionPlan {
	tests := p.analyzer.Tests()
	plan := domain.ExecutionPlan{
		Strategy:       domain.StrategyCached,
		TestsToRun:     []string{},
		TestsFromCache: []string{},
		AffectedFiles:  []string{},
		Reason:         "no changes detected",
		CachedResults:  map[string]domain.TestResult{},
		Coverage:       map[string]domain.TestCoverage{},
	}
	for _, t := range tests {
		if res, ok := p.cache.Peek(t); ok {
			plan.TestsFromCache = append(plan.TestsFromCache, t)
			plan.CachedResults[t] = res
		}
	}
	if len(tests) > 0 {
		plan.CacheHitRate = float64(len(plan.TestsFromCache)) / float64(len(tests))
	}
	return plan
}

func (p *Planner) incrementalPlan(cs domain.ChangeSet) (domain.ExecutionPlan, error) {
	if deleted := cs.DeletedFiles(); len(deleted) > 0 {
		if n := p.cache.InvalidateAffectedTests(deleted); n > 0 {
			p.logger.Debug(fmt.Sprintf("invalidated %d cache entries touching deleted files", n))
		}
	}

	impact, err := p.analyzer.Analyze(cs)
	if err != nil {
		return domain.ExecutionPlan{}, err
	}

	plan := domain.ExecutionPlan{
		Strategy:       domain.StrategyIncremental,
		TestsToRun:     []string{},
		TestsFromCache: []string{},
		AffectedFiles:  nonNil(impact.AffectedFiles),
		CachedResults:  map[string]domain.TestResult{},
		Coverage:       impact.TestCoverage,
	}

	for _, test := range impact.AffectedTestFiles {
		if cs.Contains(test) {
			plan.TestsToRun = append(plan.TestsToRun, test)
			continue
		}
		lookup := p.cache.Check(test, impact.TestCoverage[test])
		if !lookup.Hit {
			plan.TestsToRun = append(plan.TestsToRun, test)
			continue
		}
		plan.TestsFromCache = append(plan.TestsFromCache, test)
		plan.CachedResults[test] = lookup.Result
	}

	if affected := len(impact.AffectedTestFiles); affected > 0 {
		plan.CacheHitRate = float64(len(plan.TestsFromCache)) / float64(affected)
	}
	plan.Reason = fmt.Sprintf("%d changed files affect %d tests", cs.Len(), len(impact.AffectedTestFiles))
	if n := len(impact.Unanalyzable); n > 0 {
		plan.Reason += fmt.Sprintf(", %d unanalyzable files selected conservatively", n)
	}
	return plan, nil
}

// estimate sums known or default durations and spreads them over the workers.
func (p *Planner) estimate(tests []string) time.Duration {
	var total time.Duration
	for _, t := range tests {
		if d, ok := p.cache.Duration(t); ok {
			total += d
			continue
		}
		total += p.cfg.Runner.DefaultDuration
	}
	if workers := p.cfg.Runner.Workers(len(tests)); workers > 1 {
		total /= time.Duration(workers)
	}
	return total
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
