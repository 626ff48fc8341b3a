package domain

// DependencyNode is a file in the dependency graph together with the files it imports.
type DependencyNode struct {
	// Path is the root-relative path of the file.
	Path string
	// Dependencies are the resolved root-relative paths of direct imports.
	Dependencies []string
	// Unresolved holds relative specifiers that did not resolve to a file.
	Unresolved []string
	// Err is set when the file could not be read or parsed.
	Err error
}

// Analyzable reports whether the node's dependency data can be trusted.
func (n DependencyNode) Analyzable() bool {
	return n.Err == nil && len(n.Unresolved) == 0
}

// TestCoverage describes what a test depends on.
type TestCoverage struct {
	// Sources is the sorted set of non-test source files the test transitively imports.
	// It is the cache key input for the test.
	Sources []string `json:"sources"`
	// Dependencies is the sorted transitive dependency closure of the test.
	Dependencies []string `json:"dependencies"`
}

// ImpactAnalysis is the outcome of propagating a change set through the dependency graph.
type ImpactAnalysis struct {
	// ChangedFiles are the files the analysis started from.
	ChangedFiles []string
	// AffectedFiles are all files transitively depending on a changed file, seeds included.
	AffectedFiles []string
	// AffectedTestFiles are the affected files matching the test patterns.
	AffectedTestFiles []string
	// TestCoverage maps every affected test to its coverage.
	TestCoverage map[string]TestCoverage
	// Unanalyzable lists files whose dependents were selected conservatively.
	Unanalyzable []string
}
