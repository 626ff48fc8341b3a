package domain

import (
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zerr"
)

// Config is the resolved project configuration.
type Config struct {
	// Root is the absolute project root. All other paths are relative to it.
	Root string

	Tests   Patterns
	Sources Patterns
	Resolve ResolveConfig
	Runner  RunnerConfig
	Cache   CacheConfig
	Verify  VerifyConfig
	Git     GitConfig
	Metrics MetricsConfig
}

// Patterns is a pair of include and exclude glob lists.
type Patterns struct {
	Include []string
	Exclude []string
}

// Merge returns the union of both include lists and both exclude lists.
func (p Patterns) Merge(other Patterns) Patterns {
	return Patterns{
		Include: append(append([]string{}, p.Include...), other.Include...),
		Exclude: append(append([]string{}, p.Exclude...), other.Exclude...),
	}
}

// Match reports whether a slash separated, root-relative path matches an include pattern
// and no exclude pattern.
func (p Patterns) Match(rel string) bool {
	return matchAny(p.Include, rel) && !matchAny(p.Exclude, rel)
}

// Validate checks the syntax of every pattern.
func (p Patterns) Validate() error {
	for _, list := range [][]string{p.Include, p.Exclude} {
		for _, pattern := range list {
			if !doublestar.ValidatePattern(pattern) {
				return zerr.With(ErrInvalidPattern, "pattern", pattern)
			}
		}
	}
	return nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ResolveConfig controls module resolution of import specifiers.
type ResolveConfig struct {
	// Extensions are probed in order when a specifier has no extension.
	Extensions []string
	// Aliases maps specifier prefixes to root-relative path prefixes, e.g. "@/" to "src/".
	Aliases map[string]string
	// BaseURL is a root-relative directory non-relative specifiers are tried against.
	BaseURL string
}

// RunnerConfig controls test execution.
type RunnerConfig struct {
	// Command is the test command template. The token {files} is replaced by the files
	// of an invocation; when absent the files are appended.
	Command []string
	// Parallel enables chunked parallel execution.
	Parallel bool
	// MaxWorkers bounds the number of concurrent test processes.
	MaxWorkers int
	// Timeout is the hard per-invocation timeout.
	Timeout time.Duration
	// DefaultDuration is the estimate used for tests with no known duration.
	DefaultDuration time.Duration
	// Env is extra environment for the test command, as KEY=VALUE pairs.
	Env []string
}

// Workers returns the number of concurrent test processes for n tests.
func (c RunnerConfig) Workers(n int) int {
	if !c.Parallel || n <= 1 {
		return 1
	}
	return max(1, min(n, c.MaxWorkers))
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Dir             string
	MaxAge          time.Duration
	MaxSize         int64
	Compress        bool
	CleanupInterval time.Duration
}

// VerifyConfig controls accuracy verification.
type VerifyConfig struct {
	SampleRate     float64
	MinPerCategory int
	Threshold      float64
	HistorySize    int
	HistoryPath    string
	// Seed seeds the sampling source. Zero means a random seed per run.
	Seed uint64
}

// GitConfig controls change detection.
type GitConfig struct {
	BaseRef            string
	IncludeWorkingTree bool
}

// MetricsConfig controls the Prometheus text file export.
type MetricsConfig struct {
	// Textfile is the path metrics are written to after each command. Empty disables it.
	Textfile string
}

// DefaultConfig returns the configuration used when retest.yaml leaves a key unset.
func DefaultConfig(root string) Config {
	return Config{
		Root: root,
		Tests: Patterns{
			Include: []string{"**/*.test.{ts,tsx,js,jsx,mjs,cjs}", "**/*.spec.{ts,tsx,js,jsx,mjs,cjs}"},
			Exclude: []string{"**/node_modules/**"},
		},
		Sources: Patterns{
			Include: []string{"**/*.{ts,tsx,mts,cts,js,jsx,mjs,cjs}"},
			Exclude: []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/coverage/**", StateDirName + "/**"},
		},
		Resolve: ResolveConfig{
			Extensions: []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"},
			Aliases:    map[string]string{},
		},
		Runner: RunnerConfig{
			Command:         []string{"npx", "vitest", "run", "--reporter=json", "{files}"},
			Parallel:        true,
			MaxWorkers:      4,
			Timeout:         5 * time.Minute,
			DefaultDuration: time.Second,
		},
		Cache: CacheConfig{
			Dir:             DefaultCachePath(),
			MaxAge:          7 * 24 * time.Hour,
			MaxSize:         50 << 20,
			CleanupInterval: 10 * time.Minute,
		},
		Verify: VerifyConfig{
			SampleRate:     0.1,
			MinPerCategory: 1,
			Threshold:      0.95,
			HistorySize:    100,
			HistoryPath:    DefaultHistoryPath(),
		},
		Git: GitConfig{
			BaseRef:            "HEAD",
			IncludeWorkingTree: true,
		},
	}
}

// Path resolves a configured path against the project root. Absolute paths are kept.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}
