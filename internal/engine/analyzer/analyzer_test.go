package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/fs"
	"go.trai.ch/retest/internal/adapters/imports"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports/mocks"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.uber.org/mock/gomock"
)

var project = map[string]string{
	"src/a.ts":           `export const a = 1;`,
	"src/b.ts":           `import { a } from "./a"; export const b = a;`,
	"src/c.ts":           `import { b } from "./b.js"; import { d } from "./d"; export const c = b + d;`,
	"src/d.ts":           `import { c } from "./c"; export const d = () => c;`,
	"src/lib/index.ts":   `export * from "../a";`,
	"src/e.ts":           `import { a } from "@/lib"; export const e = a;`,
	"src/dyn.ts":         `export const load = (name: string) => import(name);`,
	"src/a.test.ts":      `import { a } from "./a"; import { it } from "vitest";`,
	"src/b.test.ts":      `import { b } from "./b";`,
	"src/c.test.ts":      `import { c } from "./c";`,
	"src/e.test.ts":      `import { e } from "./e";`,
	"src/dyn.test.ts":    `import { load } from "./dyn";`,
	"src/broken.test.ts": `import { x } from "./missing";`,
	"README.md":          `# project`,
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o750))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o600))
	}
	return root
}

func newAnalyzer(t *testing.T, files map[string]string) (*analyzer.Analyzer, domain.Config) {
	t.Helper()
	root := writeProject(t, files)
	cfg := domain.DefaultConfig(root)
	cfg.Resolve.Aliases = map[string]string{"@/*": "src/*"}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	a := analyzer.NewAnalyzer(fs.NewFileSystem(root, fs.NewWalker()), imports.NewParser(), log, cfg.Tests, cfg.Resolve)
	require.NoError(t, a.BuildGraph(context.Background(), cfg.Sources, cfg.Tests))
	return a, cfg
}

func TestAnalyzer_BuildGraph(t *testing.T) {
	a, _ := newAnalyzer(t, project)

	deps, ok := a.GetDependencies("src/c.ts")
	require.True(t, ok)
	assert.Equal(t, []string{"src/b.ts", "src/d.ts"}, deps)

	deps, ok = a.GetDependencies("src/e.ts")
	require.True(t, ok)
	assert.Equal(t, []string{"src/lib/index.ts"}, deps)

	deps, ok = a.GetDependencies("src/a.test.ts")
	require.True(t, ok)
	assert.Equal(t, []string{"src/a.ts"}, deps, "packages are not part of the graph")

	_, ok = a.GetDependencies("README.md")
	assert.False(t, ok)

	assert.Equal(t, []string{"src/broken.test.ts", "src/dyn.ts"}, a.Unanalyzable())
	assert.Equal(t, []string{
		"src/a.test.ts",
		"src/b.test.ts",
		"src/broken.test.ts",
		"src/c.test.ts",
		"src/dyn.test.ts",
		"src/e.test.ts",
	}, a.Tests())
	assert.Len(t, a.Files(), 13)
	assert.True(t, a.IsTest("src/a.test.ts"))
	assert.False(t, a.IsTest("src/a.ts"))
}

func TestAnalyzer_GetDependencies_ReturnsCopy(t *testing.T) {
	a, _ := newAnalyzer(t, project)

	deps, _ := a.GetDependencies("src/c.ts")
	deps[0] = "mutated"

	again, _ := a.GetDependencies("src/c.ts")
	assert.Equal(t, "src/b.ts", again[0])
}

func TestAnalyzer_Analyze(t *testing.T) {
	a, _ := newAnalyzer(t, project)

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, []string{"src/d.ts"}, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"src/d.ts"}, impact.ChangedFiles)
	assert.Equal(t, []string{
		"src/broken.test.ts",
		"src/c.test.ts",
		"src/c.ts",
		"src/d.ts",
		"src/dyn.test.ts",
		"src/dyn.ts",
	}, impact.AffectedFiles)
	assert.Equal(t, []string{"src/broken.test.ts", "src/c.test.ts", "src/dyn.test.ts"}, impact.AffectedTestFiles)
	assert.Equal(t, []string{"src/broken.test.ts", "src/dyn.ts"}, impact.Unanalyzable)

	cov := impact.TestCoverage["src/c.test.ts"]
	assert.Equal(t, []string{"src/a.ts", "src/b.ts", "src/c.ts", "src/d.ts"}, cov.Sources)
	assert.Equal(t, cov.Sources, cov.Dependencies)
}

func TestAnalyzer_Analyze_ThroughAliasAndIndex(t *testing.T) {
	a, _ := newAnalyzer(t, project)

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, []string{"src/a.ts"}, nil))
	require.NoError(t, err)

	assert.Contains(t, impact.AffectedTestFiles, "src/e.test.ts")
	assert.Contains(t, impact.AffectedTestFiles, "src/a.test.ts")
	assert.Contains(t, impact.AffectedTestFiles, "src/b.test.ts")
	assert.Equal(t, []string{"src/a.ts", "src/e.ts", "src/lib/index.ts"}, impact.TestCoverage["src/e.test.ts"].Sources)
}

func TestAnalyzer_Analyze_UnrelatedChange(t *testing.T) {
	files := map[string]string{
		"src/a.ts":      `export const a = 1;`,
		"src/b.ts":      `export const b = 2;`,
		"src/a.test.ts": `import { a } from "./a";`,
		"src/b.test.ts": `import { b } from "./b";`,
	}
	a, _ := newAnalyzer(t, files)

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, []string{"README.md"}, nil))
	require.NoError(t, err)
	assert.Empty(t, impact.AffectedTestFiles)
	assert.Empty(t, impact.TestCoverage)

	impact, err = a.Analyze(domain.NewChangeSet("HEAD", true, []string{"src/b.ts"}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.test.ts"}, impact.AffectedTestFiles)
}

func TestAnalyzer_Analyze_ChangedTestHelper(t *testing.T) {
	files := map[string]string{
		"src/a.ts":           `export const a = 1;`,
		"src/setup.ts":       `export const setup = () => {};`,
		"src/shared.test.ts": `import { setup } from "./setup"; export const fixture = setup;`,
		"src/a.test.ts":      `import { a } from "./a"; import { fixture } from "./shared.test";`,
	}
	a, _ := newAnalyzer(t, files)

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, []string{"src/setup.ts"}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.test.ts", "src/shared.test.ts"}, impact.AffectedTestFiles)

	cov := impact.TestCoverage["src/a.test.ts"]
	assert.Equal(t, []string{"src/a.ts", "src/setup.ts", "src/shared.test.ts"}, cov.Dependencies)
	assert.Equal(t, []string{"src/a.ts", "src/setup.ts"}, cov.Sources, "test files are not covered sources")
}

func TestAnalyzer_Analyze_DeletedTest(t *testing.T) {
	files := map[string]string{
		"src/a.ts":      `export const a = 1;`,
		"src/a.test.ts": `import { a } from "./a";`,
	}
	a, _ := newAnalyzer(t, files)

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, nil, []string{"src/gone.test.ts"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/gone.test.ts"}, impact.AffectedFiles)
	assert.Empty(t, impact.AffectedTestFiles, "a deleted test cannot be run")
}

func TestAnalyzer_Analyze_BeforeBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := analyzer.NewAnalyzer(
		mocks.NewMockFileSystem(ctrl),
		mocks.NewMockImportParser(ctrl),
		mocks.NewMockLogger(ctrl),
		domain.Patterns{},
		domain.ResolveConfig{},
	)

	_, err := a.Analyze(domain.NewChangeSet("HEAD", true, nil, nil))
	require.ErrorIs(t, err, domain.ErrAnalysis)
	assert.ErrorIs(t, err, domain.ErrGraphNotBuilt)
}

func TestAnalyzer_BuildGraph_ReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileSystem(ctrl)
	parser := mocks.NewMockImportParser(ctrl)
	log := mocks.NewMockLogger(ctrl)

	files.EXPECT().Discover(gomock.Any(), gomock.Any()).Return([]string{"src/a.ts", "src/a.test.ts"}, nil)
	parser.EXPECT().Supports(gomock.Any()).Return(true).AnyTimes()
	files.EXPECT().ReadFile("src/a.ts").Return(nil, domain.ErrFileReadFailed)
	files.EXPECT().ReadFile("src/a.test.ts").Return([]byte(`import "./a"`), nil)
	parser.EXPECT().Parse(gomock.Any(), "src/a.test.ts", gomock.Any()).
		Return(nil, nil)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	a := analyzer.NewAnalyzer(files, parser, log, domain.DefaultConfig("/repo").Tests, domain.ResolveConfig{})
	require.NoError(t, a.BuildGraph(context.Background(), domain.Patterns{Include: []string{"**"}}))
	assert.Equal(t, []string{"src/a.ts"}, a.Unanalyzable())

	impact, err := a.Analyze(domain.NewChangeSet("HEAD", true, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, impact.AffectedFiles)
	assert.Empty(t, impact.AffectedTestFiles, "the test does not import the unreadable file")
}

func TestAnalyzer_BuildGraph_DiscoveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileSystem(ctrl)
	files.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDiscoveryFailed)

	a := analyzer.NewAnalyzer(files, mocks.NewMockImportParser(ctrl), mocks.NewMockLogger(ctrl),
		domain.Patterns{}, domain.ResolveConfig{})

	err := a.BuildGraph(context.Background(), domain.Patterns{Include: []string{"**"}})
	require.ErrorIs(t, err, domain.ErrAnalysis)
	assert.ErrorIs(t, err, domain.ErrDiscoveryFailed)
}
