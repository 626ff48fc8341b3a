// Package app implements the application layer for retest.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/retest/internal/adapters/detector"
	"go.trai.ch/retest/internal/adapters/report"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/cache"
	"go.trai.ch/retest/internal/engine/planner"
	"go.trai.ch/retest/internal/engine/scheduler"
	"go.trai.ch/retest/internal/engine/verifier"
	"go.trai.ch/retest/internal/ui/output"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	cfg       *domain.Config
	planner   *planner.Planner
	scheduler *scheduler.Scheduler
	verifier  *verifier.Verifier
	cache     *cache.Cache
	watcher   ports.Watcher
	metrics   ports.Metrics
	logger    ports.Logger

	out      io.Writer
	profile  func() termenv.Profile
	reporter ports.Reporter
}

// New creates a new App instance writing reports to stdout.
func New(
	cfg *domain.Config,
	p *planner.Planner,
	s *scheduler.Scheduler,
	v *verifier.Verifier,
	c *cache.Cache,
	w ports.Watcher,
	m ports.Metrics,
	log ports.Logger,
) *App {
	return &App{
		cfg:       cfg,
		planner:   p,
		scheduler: s,
		verifier:  v,
		cache:     c,
		watcher:   w,
		metrics:   m,
		logger:    log,
		out:       os.Stdout,
		profile:   output.ColorProfile,
	}
}

// WithOutput redirects reports to w. This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithReporter replaces the text and JSON reporters. This is primarily used for testing.
func (a *App) WithReporter(r ports.Reporter) *App {
	a.reporter = r
	return a
}

// WithOutputMode sets the color mode of text reports.
func (a *App) WithOutputMode(mode detector.OutputMode) *App {
	a.profile = detector.Profile(mode)
	return a
}

type logSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// ConfigureLogging switches the logger to JSON output and debug level when requested.
func (a *App) ConfigureLogging(asJSON, verbose bool) {
	if l, ok := a.logger.(logSettings); ok {
		l.SetJSON(asJSON)
		l.SetVerbose(verbose)
	}
}

// Config returns the resolved project configuration.
func (a *App) Config() *domain.Config {
	return a.cfg
}

// RunOptions configuration for the Run, Plan and Watch methods.
type RunOptions struct {
	// Full runs every test and bypasses change detection.
	Full bool
	// BaseRef overrides the configured base ref when set.
	BaseRef string
	// NoWorkingTree ignores uncommitted changes.
	NoWorkingTree bool
	// Verify audits the selection against a sampled full run after the run.
	Verify bool
	// JSON prints reports as JSON documents.
	JSON bool
	// SampleRate and Seed override the configured verification sampling when non-zero.
	SampleRate float64
	Seed       uint64
}

func (a *App) reporterFor(asJSON bool) ports.Reporter {
	if a.reporter != nil {
		return a.reporter
	}
	return report.New(a.out, asJSON, a.profile)
}

func (a *App) planOptions(opts RunOptions) planner.Options {
	o := a.planner.DefaultOptions()
	o.Force = opts.Full
	if opts.BaseRef != "" {
		o.BaseRef = opts.BaseRef
	}
	if opts.NoWorkingTree {
		o.IncludeWorkingTree = false
	}
	return o
}

// Run plans, executes and reports one incremental test run.
// It returns domain.ErrTestsFailed when a fresh or cached result failed and
// domain.ErrVerificationFailed when a requested verification was not accurate.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.flushMetrics()

	a.cache.StartSweeper(ctx, a.cfg.Cache.CleanupInterval)
	return a.run(ctx, a.reporterFor(opts.JSON), opts)
}

// Verify runs the incremental pipeline and audits it against a sampled full run.
func (a *App) Verify(ctx context.Context, opts RunOptions) error {
	opts.Verify = true
	return a.Run(ctx, opts)
}

func (a *App) run(ctx context.Context, rep ports.Reporter, opts RunOptions) error {
	plan, err := a.planner.Plan(ctx, a.planOptions(opts))
	if err != nil {
		return err
	}

	runReport, err := a.scheduler.Run(ctx, plan)
	if err != nil {
		return err
	}
	if err := rep.Run(runReport); err != nil {
		return zerr.Wrap(err, "failed to print run report")
	}

	var outcome error
	if failed := runReport.Failed(); len(failed) > 0 {
		outcome = zerr.Wrap(domain.ErrTestsFailed, fmt.Sprintf("%d test file(s) failed", len(failed)))
	}

	if !opts.Verify {
		return outcome
	}

	result, err := a.verifier.Verify(ctx, runReport, verifier.Options{
		SampleRate: opts.SampleRate,
		Seed:       opts.Seed,
	})
	if err != nil {
		return errors.Join(outcome, err)
	}
	if err := rep.Verification(result); err != nil {
		return zerr.Wrap(err, "failed to print verification report")
	}
	if !result.IsAccurate {
		outcome = errors.Join(outcome, zerr.Wrap(domain.ErrVerificationFailed,
			fmt.Sprintf("accuracy %.1f%%, %d missed", result.Accuracy*100, len(result.MissedTests))))
	}
	return outcome
}

// Plan computes and prints the execution plan without running any test.
func (a *App) Plan(ctx context.Context, opts RunOptions) error {
	plan, err := a.planner.Plan(ctx, a.planOptions(opts))
	if err != nil {
		return err
	}
	return a.reporterFor(opts.JSON).Plan(plan)
}

// CacheStats prints a snapshot of the result cache.
func (a *App) CacheStats(asJSON bool) error {
	return a.reporterFor(asJSON).CacheStats(a.cache.Stats())
}

// CacheClear removes every cached result.
func (a *App) CacheClear() error {
	n := a.cache.Stats().Entries
	if err := a.cache.Clear(); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed %d cached results", n))
	return nil
}

// History prints the verification trends over the most recent window records.
func (a *App) History(window int, asJSON bool) error {
	trends, err := a.verifier.Trends(window)
	if err != nil {
		return err
	}
	return a.reporterFor(asJSON).Trends(trends)
}

// Watch runs the affected tests once and again after every batch of relevant file
// changes until ctx is done. Failed tests do not stop the loop.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.flushMetrics()

	if err := a.watcher.Start(ctx, a.cfg.Root); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.cache.StartSweeper(ctx, a.cfg.Cache.CleanupInterval)

	opts.Full = false
	opts.NoWorkingTree = false
	opts.Verify = false
	rep := a.reporterFor(opts.JSON)

	a.cycle(ctx, rep, opts)
	a.logger.Info("watching for changes, press Ctrl+C to stop")

	watched := a.cfg.Sources.Merge(a.cfg.Tests)
	for batch := range a.watcher.Batches() {
		if ctx.Err() != nil {
			break
		}
		n := relevant(batch, watched)
		if n == 0 {
			continue
		}
		a.logger.Info(fmt.Sprintf("%d file(s) changed, re-running affected tests", n))
		a.cycle(ctx, rep, opts)
	}
	return nil
}

func (a *App) cycle(ctx context.Context, rep ports.Reporter, opts RunOptions) {
	err := a.run(ctx, rep, opts)
	switch {
	case err == nil, ctx.Err() != nil:
	case errors.Is(err, domain.ErrTestsFailed):
		a.logger.Warn(err.Error())
	default:
		a.logger.Error(err)
	}
}

func relevant(batch []ports.WatchEvent, patterns domain.Patterns) int {
	n := 0
	for _, ev := range batch {
		if patterns.Match(ev.Path) {
			n++
		}
	}
	return n
}

func (a *App) flushMetrics() {
	if err := a.metrics.Flush(); err != nil {
		a.logger.Warn(fmt.Sprintf("metrics not written: %v", err))
	}
}
