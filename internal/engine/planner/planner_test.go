package planner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/retest/internal/adapters/cas"
	"go.trai.ch/retest/internal/adapters/fs"
	"go.trai.ch/retest/internal/adapters/imports"
	"go.trai.ch/retest/internal/adapters/metrics"
	"go.trai.ch/retest/internal/adapters/telemetry"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/core/ports/mocks"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.trai.ch/retest/internal/engine/cache"
	"go.trai.ch/retest/internal/engine/changes"
	"go.trai.ch/retest/internal/engine/planner"
	"go.trai.ch/retest/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type harness struct {
	root      string
	cfg       *domain.Config
	vcs       *mocks.MockVersionControl
	executor  *mocks.MockTestExecutor
	planner   *planner.Planner
	scheduler *scheduler.Scheduler
	cache     *cache.Cache

	// changed is what the working tree diff reports.
	changed []ports.FileChange
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeFile(t, root, rel, content)
	}

	cfg := domain.DefaultConfig(root)
	cfg.Runner.Parallel = false
	cfg.Runner.DefaultDuration = time.Second

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	h := &harness{
		root:     root,
		cfg:      &cfg,
		vcs:      mocks.NewMockVersionControl(ctrl),
		executor: mocks.NewMockTestExecutor(ctrl),
	}
	h.vcs.EXPECT().IsRepository(gomock.Any()).Return(true, nil).AnyTimes()
	h.vcs.EXPECT().ResolveRef(gomock.Any(), "HEAD").Return("abc123", nil).AnyTimes()
	h.vcs.EXPECT().Diff(gomock.Any(), "abc123", "HEAD").Return(nil, nil).AnyTimes()
	h.vcs.EXPECT().IsWorkingTreeDirty(gomock.Any()).Return(true, nil).AnyTimes()
	h.vcs.EXPECT().WorkingTreeDiff(gomock.Any()).DoAndReturn(func(context.Context) ([]ports.FileChange, error) {
		return h.changed, nil
	}).AnyTimes()
	h.vcs.EXPECT().UntrackedFiles(gomock.Any()).Return(nil, nil).AnyTimes()

	store, err := cas.NewCacheStore(cfg.Path(cfg.Cache.Dir), false)
	require.NoError(t, err)
	hasher, err := fs.NewHasher(root, 0)
	require.NoError(t, err)
	m := metrics.New("")
	tracer := telemetry.NewOTelTracer(noop.NewTracerProvider())

	h.cache = cache.New(store, hasher, m, log, cfg.Cache)
	a := analyzer.NewAnalyzer(fs.NewFileSystem(root, fs.NewWalker()), imports.NewParser(), log, cfg.Tests, cfg.Resolve)
	h.planner = planner.NewPlanner(h.cfg, changes.NewDetector(h.vcs, log), a, h.cache, m, tracer, log)
	h.scheduler = scheduler.NewScheduler(h.executor, h.cache, m, tracer, log, cfg.Runner)
	return h
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o750))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o600))
}

func (h *harness) modify(paths ...string) {
	h.changed = nil
	for _, p := range paths {
		h.changed = append(h.changed, ports.FileChange{OldPath: p, Path: p})
	}
}

func (h *harness) plan(t *testing.T) domain.ExecutionPlan {
	t.Helper()
	p, err := h.planner.Plan(context.Background(), h.planner.DefaultOptions())
	require.NoError(t, err)
	return p
}

func (h *harness) expectPassing() {
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ExecutionOutput{
		Format: domain.FormatRaw,
		Raw:    domain.RawOutput{Duration: 250 * time.Millisecond},
	}, nil).AnyTimes()
}

var project = map[string]string{
	"src/a.ts":      `export const a = 1;`,
	"src/b.ts":      `export const b = 2;`,
	"src/a.test.ts": `import { a } from "./a";`,
	"src/b.test.ts": `import { b } from "./b";`,
}

func TestPlanner_NoChangesUsesCachedStrategy(t *testing.T) {
	h := newHarness(t, project)

	p := h.plan(t)

	assert.Equal(t, domain.StrategyCached, p.Strategy)
	assert.Equal(t, []string{}, p.TestsToRun)
	assert.Empty(t, p.TestsFromCache)
	assert.Zero(t, p.EstimatedDuration)
}

func TestPlanner_ColdCacheRunsAffectedTestsOnly(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.ts")

	p := h.plan(t)

	assert.Equal(t, domain.StrategyIncremental, p.Strategy)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsToRun)
	assert.Empty(t, p.TestsFromCache)
	assert.Zero(t, p.CacheHitRate)
	assert.Equal(t, time.Second, p.EstimatedDuration)
	assert.Contains(t, p.AffectedFiles, "src/a.ts")
	assert.NotContains(t, p.AffectedFiles, "src/b.test.ts")
}

func TestPlanner_RerunServesFromCache(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.ts")
	h.expectPassing()

	report, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	p := h.plan(t)
	assert.Equal(t, domain.StrategyIncremental, p.Strategy)
	assert.Equal(t, []string{}, p.TestsToRun)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsFromCache)
	assert.InDelta(t, 1.0, p.CacheHitRate, 1e-9)
	assert.Equal(t, domain.StatusPassed, p.CachedResults["src/a.test.ts"].Status)

	report, err = h.scheduler.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, report.TimeSaved)

	_, err = os.Stat(filepath.Join(h.root, domain.StateDirName, domain.CacheDirName, domain.CacheFileName))
	assert.NoError(t, err, "cache is persisted after a run")
}

func TestPlanner_TouchInvalidatesEntry(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.ts")
	h.expectPassing()

	_, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(h.root, "src", "a.ts"), later, later))

	p := h.plan(t)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsToRun)
	assert.Empty(t, p.TestsFromCache)
}

func TestPlanner_NewImportInvalidatesEntry(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.test.ts")
	h.expectPassing()

	_, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)

	// The test now also imports b. Only b is reported as changed.
	writeFile(t, h.root, "src/a.test.ts", `import { a } from "./a"; import { b } from "./b";`)
	h.modify("src/b.ts")

	p := h.plan(t)
	assert.Equal(t, []string{"src/a.test.ts", "src/b.test.ts"}, p.TestsToRun)
}

func TestPlanner_ChangedTestAlwaysRuns(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.ts", "src/a.test.ts")
	h.expectPassing()

	_, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)

	p := h.plan(t)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsToRun, "a changed test file is never served from cache")
}

func TestPlanner_DeletedFileInvalidatesDependents(t *testing.T) {
	files := map[string]string{
		"src/a.ts":      `export const a = 1;`,
		"src/old.ts":    `export const old = 1;`,
		"src/a.test.ts": `import { a } from "./a"; import { old } from "./old";`,
	}
	h := newHarness(t, files)
	h.modify("src/a.ts")
	h.expectPassing()

	_, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)
	require.Equal(t, 1, h.cache.Stats().Entries)

	require.NoError(t, os.Remove(filepath.Join(h.root, "src", "old.ts")))
	h.changed = []ports.FileChange{{OldPath: "src/old.ts"}}

	p := h.plan(t)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsToRun)
	assert.Contains(t, p.Reason, "unanalyzable", "the dangling import is selected conservatively")
}

func TestPlanner_ForceRunsEverything(t *testing.T) {
	h := newHarness(t, project)
	h.cfg.Runner.Parallel = true
	h.cfg.Runner.MaxWorkers = 2

	p, err := h.planner.Plan(context.Background(), planner.Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyFull, p.Strategy)
	assert.Equal(t, []string{"src/a.test.ts", "src/b.test.ts"}, p.TestsToRun)
	assert.Equal(t, []string{"src/a.ts"}, p.Coverage["src/a.test.ts"].Sources)
	assert.Equal(t, time.Second, p.EstimatedDuration, "two default estimates over two workers")
}

func TestPlanner_DetectionErrorPropagates(t *testing.T) {
	h := newHarness(t, project)
	h.vcs.EXPECT().ResolveRef(gomock.Any(), "missing").Return("", errors.New("unknown revision"))

	_, err := h.planner.Plan(context.Background(), planner.Options{BaseRef: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestPlanner_CachedStrategyReusesPriorResults(t *testing.T) {
	h := newHarness(t, project)
	h.modify("src/a.ts")
	h.expectPassing()

	_, err := h.scheduler.Run(context.Background(), h.plan(t))
	require.NoError(t, err)

	h.modify()
	p := h.plan(t)
	assert.Equal(t, domain.StrategyCached, p.Strategy)
	assert.Equal(t, []string{"src/a.test.ts"}, p.TestsFromCache)
	assert.InDelta(t, 0.5, p.CacheHitRate, 1e-9)
}
