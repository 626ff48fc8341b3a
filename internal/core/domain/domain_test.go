package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/core/domain"
)

func TestNewChangeSet_Normalizes(t *testing.T) {
	cs := domain.NewChangeSet("main", true,
		[]string{"./src/b.ts", "src\\a.ts", "", "src/b.ts"},
		[]string{"src/old.ts"},
	)

	assert.Equal(t, "main", cs.BaseRef)
	assert.True(t, cs.IncludesWorkingTree)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts", "src/old.ts"}, cs.ChangedFiles())
	assert.Equal(t, []string{"src/old.ts"}, cs.DeletedFiles())
	assert.Equal(t, 3, cs.Len())
	assert.False(t, cs.IsEmpty())

	assert.True(t, cs.Contains("src/a.ts"))
	assert.True(t, cs.Contains("src/old.ts"))
	assert.False(t, cs.Contains("src/c.ts"))
	assert.True(t, cs.IsDeleted("src/old.ts"))
	assert.False(t, cs.IsDeleted("src/a.ts"))
}

func TestChangeSet_AccessorsReturnCopies(t *testing.T) {
	cs := domain.NewChangeSet("HEAD", false, []string{"a.ts"}, nil)

	files := cs.ChangedFiles()
	files[0] = "mutated.ts"

	assert.Equal(t, []string{"a.ts"}, cs.ChangedFiles())
}

func TestChangeSet_Empty(t *testing.T) {
	var zero domain.ChangeSet
	assert.True(t, zero.IsEmpty())
	assert.True(t, domain.NewChangeSet("HEAD", true, nil, nil).IsEmpty())
}

func TestPatterns_Match(t *testing.T) {
	p := domain.Patterns{
		Include: []string{"**/*.test.{ts,tsx}"},
		Exclude: []string{"**/node_modules/**"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"a.test.ts", true},
		{"src/ui/Button.test.tsx", true},
		{"src/a.ts", false},
		{"node_modules/pkg/a.test.ts", false},
		{"src/a.test.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.path))
		})
	}
}

func TestPatterns_Merge(t *testing.T) {
	a := domain.Patterns{Include: []string{"a"}, Exclude: []string{"x"}}
	b := domain.Patterns{Include: []string{"b"}}

	merged := a.Merge(b)

	assert.Equal(t, []string{"a", "b"}, merged.Include)
	assert.Equal(t, []string{"x"}, merged.Exclude)
	assert.Equal(t, []string{"a"}, a.Include)
}

func TestPatterns_Validate(t *testing.T) {
	require.NoError(t, domain.Patterns{Include: []string{"**/*.ts"}}.Validate())

	err := domain.Patterns{Exclude: []string{"src/[a"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidPattern.Error())
}

func TestRunnerConfig_Workers(t *testing.T) {
	tests := []struct {
		name     string
		parallel bool
		max      int
		n        int
		want     int
	}{
		{"sequential", false, 4, 10, 1},
		{"single test", true, 4, 1, 1},
		{"fewer tests than workers", true, 4, 3, 3},
		{"bounded by workers", true, 4, 10, 4},
		{"misconfigured workers", true, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.RunnerConfig{Parallel: tt.parallel, MaxWorkers: tt.max}
			assert.Equal(t, tt.want, cfg.Workers(tt.n))
		})
	}
}

func TestConfig_Path(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	cfg := domain.DefaultConfig(root)
	abs := filepath.Join(t.TempDir(), "elsewhere")

	assert.Equal(t, filepath.Join(root, ".retest", "cache"), cfg.Path(cfg.Cache.Dir))
	assert.Equal(t, abs, cfg.Path(abs))
	assert.Empty(t, cfg.Path(""))
}

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig("/repo")

	assert.Equal(t, "/repo", cfg.Root)
	assert.True(t, cfg.Tests.Match("src/a.test.ts"))
	assert.True(t, cfg.Sources.Match("src/a.ts"))
	assert.False(t, cfg.Sources.Match(".retest/cache/results.json"))
	assert.Equal(t, "HEAD", cfg.Git.BaseRef)
	assert.InDelta(t, 0.1, cfg.Verify.SampleRate, 1e-9)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		file string
		want domain.TestCategory
	}{
		{"e2e/login.spec.ts", domain.CategoryE2E},
		{"tests/integration/db.test.ts", domain.CategoryIntegration},
		{"src/checkout.int.test.ts", domain.CategoryIntegration},
		{"src/api/users.test.ts", domain.CategoryAPI},
		{"src/components/Button.test.ts", domain.CategoryComponent},
		{"pages/Home.test.tsx", domain.CategoryComponent},
		{"src/utils/format.test.ts", domain.CategoryUnit},
		{"misc/thing.test.ts", domain.CategoryOther},
		{"E2E/Checkout.test.ts", domain.CategoryE2E},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CategoryOf(tt.file))
		})
	}
}

func TestRunReport_Failed(t *testing.T) {
	report := domain.RunReport{
		Results: []domain.TestResult{
			{TestFile: "a.test.ts", Status: domain.StatusPassed},
			{TestFile: "b.test.ts", Status: domain.StatusFailed},
		},
		CachedResults: []domain.TestResult{
			{TestFile: "c.test.ts", Status: domain.StatusFailed},
			{TestFile: "d.test.ts", Status: domain.StatusSkipped},
		},
	}

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "b.test.ts", failed[0].TestFile)
	assert.Equal(t, "c.test.ts", failed[1].TestFile)

	res, ok := report.Result("c.test.ts")
	require.True(t, ok)
	assert.True(t, res.Failed())
	_, ok = report.Result("e.test.ts")
	assert.False(t, ok)
}

func TestDependencyNode_Analyzable(t *testing.T) {
	assert.True(t, domain.DependencyNode{Path: "a.ts"}.Analyzable())
	assert.False(t, domain.DependencyNode{Path: "a.ts", Unresolved: []string{"./gone"}}.Analyzable())
	assert.False(t, domain.DependencyNode{Path: "a.ts", Err: domain.ErrParseFailed}.Analyzable())
}
