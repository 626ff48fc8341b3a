// Package analyzer builds the file-level import graph of a project and propagates change
// sets through it.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// nonLiteralSpecifier stands in for an import whose argument is not a string literal.
const nonLiteralSpecifier = "<expression>"

// Analyzer owns the dependency graph. Nodes are only reachable through its methods.
// Reverse edges are derived per query and never stored.
type Analyzer struct {
	fs      ports.FileSystem
	parser  ports.ImportParser
	logger  ports.Logger
	tests   domain.Patterns
	resolve domain.ResolveConfig

	mu    sync.RWMutex
	nodes map[string]domain.DependencyNode
	files []string
}

// NewAnalyzer creates an Analyzer. Files matching tests are treated as test files.
func NewAnalyzer(
	fs ports.FileSystem,
	parser ports.ImportParser,
	logger ports.Logger,
	tests domain.Patterns,
	resolve domain.ResolveConfig,
) *Analyzer {
	return &Analyzer{
		fs:      fs,
		parser:  parser,
		logger:  logger,
		tests:   tests,
		resolve: resolve,
	}
}

// BuildGraph discovers the files matching any of the pattern sets, parses their imports
// and replaces the current graph.
//
// Files that cannot be read or parsed, or that have relative imports which do not
// resolve, stay in the graph marked as unanalyzable. Only discovery failures and
// cancellation are returned as errors.
func (a *Analyzer) BuildGraph(ctx context.Context, patterns ...domain.Patterns) error {
	var files []string
	for _, p := range patterns {
		found, err := a.fs.Discover(ctx, p)
		if err != nil {
			return errors.Join(domain.ErrAnalysis, err)
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	files = slices.Compact(files)

	known := make(map[string]struct{}, len(files))
	for _, f := range files {
		known[f] = struct{}{}
	}
	resolver := NewResolver(a.resolve, func(p string) bool {
		if _, ok := known[p]; ok {
			return true
		}
		return a.fs.Exists(p)
	})

	nodes := make([]domain.DependencyNode, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			nodes[i] = a.analyzeFile(gctx, resolver, file)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	graph := make(map[string]domain.DependencyNode, len(nodes))
	for _, n := range nodes {
		if !n.Analyzable() {
			a.warnUnanalyzable(n)
		}
		graph[n.Path] = n
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.nodes = graph
	a.files = files
	return nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, resolver *Resolver, file string) domain.DependencyNode {
	node := domain.DependencyNode{Path: file}
	if !a.parser.Supports(file) {
		return node
	}

	content, err := a.fs.ReadFile(file)
	if err != nil {
		node.Err = errors.Join(domain.ErrAnalysis, err)
		return node
	}

	imports, err := a.parser.Parse(ctx, file, content)
	if err != nil {
		node.Err = errors.Join(domain.ErrAnalysis, err)
	}

	for _, imp := range imports {
		target, res := resolver.Resolve(file, imp.Specifier)
		switch res {
		case Resolved:
			if target != file {
				node.Dependencies = append(node.Dependencies, target)
			}
		case Unresolved:
			spec := imp.Specifier
			if spec == "" {
				spec = nonLiteralSpecifier
			}
			node.Unresolved = append(node.Unresolved, spec)
		case External:
		}
	}
	slices.Sort(node.Dependencies)
	node.Dependencies = slices.Compact(node.Dependencies)
	return node
}

func (a *Analyzer) warnUnanalyzable(n domain.DependencyNode) {
	if n.Err != nil {
		a.logger.Warn(fmt.Sprintf("%s: dependents will always be selected: %v", n.Path, n.Err))
		return
	}
	a.logger.Warn(fmt.Sprintf("%s: %v %q: dependents will always be selected",
		n.Path, domain.ErrUnresolvedImport, n.Unresolved))
}

// GetDependencies returns the resolved direct dependencies of a file.
func (a *Analyzer) GetDependencies(file string) ([]string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n, ok := a.nodes[file]
	if !ok {
		return nil, false
	}
	return slices.Clone(n.Dependencies), true
}

// Files returns every file in the graph, sorted.
func (a *Analyzer) Files() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.files)
}

// Tests returns every test file in the graph, sorted.
func (a *Analyzer) Tests() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var tests []string
	for _, f := range a.files {
		if a.tests.Match(f) {
			tests = append(tests, f)
		}
	}
	return tests
}

// IsTest reports whether a file matches the test patterns.
func (a *Analyzer) IsTest(file string) bool {
	return a.tests.Match(file)
}

// Unanalyzable returns the files whose dependency data cannot be trusted, sorted.
func (a *Analyzer) Unanalyzable() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.unanalyzable()
}

func (a *Analyzer) unanalyzable() []string {
	var out []string
	for _, f := range a.files {
		if !a.nodes[f].Analyzable() {
			out = append(out, f)
		}
	}
	return out
}

// Analyze finds every file transitively depending on a changed file and the tests among
// them. Unanalyzable files are treated as changed so their dependents are always selected.
func (a *Analyzer) Analyze(cs domain.ChangeSet) (domain.ImpactAnalysis, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.nodes == nil {
		return domain.ImpactAnalysis{}, errors.Join(domain.ErrAnalysis, domain.ErrGraphNotBuilt)
	}

	unanalyzable := a.unanalyzable()
	dependents := a.reverseEdges()

	visited := make(map[string]struct{})
	queue := append(cs.ChangedFiles(), unanalyzable...)
	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if _, seen := visited[file]; seen {
			continue
		}
		visited[file] = struct{}{}
		queue = append(queue, dependents[file]...)
	}

	affected := make([]string, 0, len(visited))
	for f := range visited {
		affected = append(affected, f)
	}
	slices.Sort(affected)

	var tests []string
	coverage := make(map[string]domain.TestCoverage)
	for _, f := range affected {
		if _, inGraph := a.nodes[f]; !inGraph || !a.tests.Match(f) {
			continue
		}
		tests = append(tests, f)
		coverage[f] = a.coverage(f)
	}

	return domain.ImpactAnalysis{
		ChangedFiles:      cs.ChangedFiles(),
		AffectedFiles:     affected,
		AffectedTestFiles: tests,
		TestCoverage:      coverage,
		Unanalyzable:      unanalyzable,
	}, nil
}

// Coverage returns the transitive dependencies of a test and the non-test source files
// among them.
func (a *Analyzer) Coverage(test string) domain.TestCoverage {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.coverage(test)
}

func (a *Analyzer) coverage(test string) domain.TestCoverage {
	visited := map[string]struct{}{test: {}}
	queue := slices.Clone(a.nodes[test].Dependencies)
	deps := []string{}
	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if _, seen := visited[file]; seen {
			continue
		}
		visited[file] = struct{}{}
		deps = append(deps, file)
		queue = append(queue, a.nodes[file].Dependencies...)
	}
	slices.Sort(deps)

	sources := []string{}
	for _, d := range deps {
		if !a.tests.Match(d) {
			sources = append(sources, d)
		}
	}
	return domain.TestCoverage{Sources: sources, Dependencies: deps}
}

func (a *Analyzer) reverseEdges() map[string][]string {
	dependents := make(map[string][]string)
	for _, f := range a.files {
		for _, dep := range a.nodes[f].Dependencies {
			dependents[dep] = append(dependents[dep], f)
		}
	}
	return dependents
}
