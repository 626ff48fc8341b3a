// Package scheduler executes the tests of an execution plan.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/cache"
	"golang.org/x/sync/errgroup"
)

// maxErrorLines bounds the stderr lines kept on a failed raw result.
const maxErrorLines = 20

// Scheduler runs test files through the test executor, sequentially or in chunks on a
// bounded pool of child processes, and records fresh results in the cache.
type Scheduler struct {
	executor ports.TestExecutor
	cache    *cache.Cache
	metrics  ports.Metrics
	tracer   ports.Tracer
	logger   ports.Logger
	runner   domain.RunnerConfig
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	executor ports.TestExecutor,
	cache *cache.Cache,
	metrics ports.Metrics,
	tracer ports.Tracer,
	logger ports.Logger,
	runner domain.RunnerConfig,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		cache:    cache,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
		runner:   runner,
	}
}

// Run executes the tests of a plan, stores every fresh result in the cache and persists
// it. Failing tests are reported in the returned report, not as an error.
func (s *Scheduler) Run(ctx context.Context, plan domain.ExecutionPlan) (domain.RunReport, error) {
	start := time.Now()

	results, err := s.Execute(ctx, plan.TestsToRun)
	if err != nil {
		return domain.RunReport{}, err
	}

	for _, res := range results {
		if err := s.cache.Put(res, plan.Coverage[res.TestFile]); err != nil {
			s.logger.Warn(fmt.Sprintf("not caching %s: %v", res.TestFile, err))
		}
	}
	if len(results) > 0 {
		if err := s.cache.Save(); err != nil {
			s.logger.Warn(fmt.Sprintf("cache not persisted: %v", err))
		}
	}

	report := domain.RunReport{
		Plan:          plan,
		Results:       results,
		CachedResults: make([]domain.TestResult, 0, len(plan.TestsFromCache)),
	}
	for _, test := range plan.TestsFromCache {
		res, ok := plan.CachedResults[test]
		if !ok {
			continue
		}
		report.CachedResults = append(report.CachedResults, res)
		report.TimeSaved += res.Duration
	}
	report.Duration = time.Since(start)
	report.CacheStats = s.cache.Stats()
	return report, nil
}

// Execute runs files without consulting or updating the cache and returns one result
// per file in input order.
//
// Parallel execution partitions the files into one chunk per worker. Each chunk is a
// single invocation, and results are collected only after every worker has exited.
func (s *Scheduler) Execute(ctx context.Context, files []string) ([]domain.TestResult, error) {
	if len(files) == 0 {
		return []domain.TestResult{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "execute", ports.WithAttribute("tests", len(files)))
	defer span.End()
	s.tracer.EmitPlan(ctx, files)

	chunks := s.partition(files)
	slots := make([][]domain.TestResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.runner.Workers(len(files)))
	for i, chunk := range chunks {
		g.Go(func() error {
			res, err := s.runChunk(gctx, chunk)
			if err != nil {
				return err
			}
			slots[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]domain.TestResult, 0, len(files))
	for _, res := range slots {
		results = append(results, res...)
	}
	for _, res := range results {
		s.metrics.TestExecuted(res.Status, res.Duration)
	}
	return results, nil
}

// partition returns one file per invocation when sequential and ceil(n/workers) files per
// invocation when parallel.
func (s *Scheduler) partition(files []string) [][]string {
	size := 1
	if s.runner.Parallel {
		workers := s.runner.Workers(len(files))
		size = (len(files) + workers - 1) / workers
	}

	chunks := make([][]string, 0, (len(files)+size-1)/size)
	for i := 0; i < len(files); i += size {
		chunks = append(chunks, files[i:min(i+size, len(files))])
	}
	return chunks
}

func (s *Scheduler) runChunk(ctx context.Context, files []string) ([]domain.TestResult, error) {
	ctx, span := s.tracer.Start(ctx, "chunk", ports.WithAttribute("files", strings.Join(files, " ")))
	defer span.End()

	out, err := s.executor.Execute(ctx, files, span)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConfiguration), ctx.Err() != nil:
		span.RecordError(err)
		return nil, err
	default:
		// The command could not be started for this chunk. The other chunks carry on.
		span.RecordError(err)
		s.logger.Error(err)
		return failAll(files, err.Error(), 0), nil
	}

	if out.Raw.TimedOut {
		span.RecordError(domain.ErrTimeout)
		msg := domain.ErrTimeout.Error()
		if tail := lastLines(out.Raw.Stderr, maxErrorLines); tail != "" {
			msg += ": " + tail
		}
		return failAll(files, msg, out.Raw.Duration), nil
	}

	if out.Format == domain.FormatStructured && out.Report != nil {
		return fromReport(files, out), nil
	}
	return fromExitCode(files, out.Raw), nil
}

func fromReport(files []string, out domain.ExecutionOutput) []domain.TestResult {
	byPath := make(map[string]domain.FileReport, len(out.Report.Files))
	for _, f := range out.Report.Files {
		byPath[f.Path] = f
	}

	now := time.Now()
	results := make([]domain.TestResult, 0, len(files))
	for _, file := range files {
		f, ok := byPath[file]
		if !ok {
			results = append(results, domain.TestResult{
				TestFile:  file,
				Status:    domain.StatusFailed,
				Duration:  out.Raw.Duration / time.Duration(len(files)),
				Timestamp: now,
				Errors:    []string{"no result reported for file"},
			})
			continue
		}
		assertions := f.Assertions
		res := domain.TestResult{
			TestFile:   file,
			Status:     f.Status,
			Duration:   f.Duration,
			Timestamp:  now,
			Coverage:   f.Coverage,
			Assertions: &assertions,
		}
		if f.Message != "" {
			res.Errors = []string{f.Message}
		}
		results = append(results, res)
	}
	return results
}

func fromExitCode(files []string, raw domain.RawOutput) []domain.TestResult {
	if raw.ExitCode != 0 {
		msg := fmt.Sprintf("exit code %d", raw.ExitCode)
		if tail := lastLines(raw.Stderr, maxErrorLines); tail != "" {
			msg += ": " + tail
		}
		return failAll(files, msg, raw.Duration)
	}

	now := time.Now()
	results := make([]domain.TestResult, 0, len(files))
	for _, file := range files {
		results = append(results, domain.TestResult{
			TestFile:  file,
			Status:    domain.StatusPassed,
			Duration:  raw.Duration / time.Duration(len(files)),
			Timestamp: now,
		})
	}
	return results
}

func failAll(files []string, msg string, total time.Duration) []domain.TestResult {
	now := time.Now()
	results := make([]domain.TestResult, 0, len(files))
	for _, file := range files {
		results = append(results, domain.TestResult{
			TestFile:  file,
			Status:    domain.StatusFailed,
			Duration:  total / time.Duration(len(files)),
			Timestamp: now,
			Errors:    []string{msg},
		})
	}
	return results
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
