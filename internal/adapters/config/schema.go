package config

import "time"

// Retestfile represents the structure of the retest.yaml configuration file.
// Pointer fields distinguish unset keys from zero values.
type Retestfile struct {
	Version string      `yaml:"version"`
	Root    string      `yaml:"root"`
	Tests   PatternsDTO `yaml:"tests"`
	Sources PatternsDTO `yaml:"sources"`
	Resolve ResolveDTO  `yaml:"resolve"`
	Runner  RunnerDTO   `yaml:"runner"`
	Cache   CacheDTO    `yaml:"cache"`
	Verify  VerifyDTO   `yaml:"verify"`
	Git     GitDTO      `yaml:"git"`
	Metrics MetricsDTO  `yaml:"metrics"`
}

// PatternsDTO is a pair of include and exclude glob lists.
type PatternsDTO struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// ResolveDTO configures module resolution.
type ResolveDTO struct {
	Extensions []string          `yaml:"extensions"`
	Aliases    map[string]string `yaml:"aliases"`
	BaseURL    string            `yaml:"baseUrl"`
}

// RunnerDTO configures test execution.
type RunnerDTO struct {
	Command         []string          `yaml:"command"`
	Parallel        *bool             `yaml:"parallel"`
	MaxWorkers      *int              `yaml:"maxWorkers"`
	Timeout         *time.Duration    `yaml:"timeout"`
	DefaultDuration *time.Duration    `yaml:"defaultDuration"`
	Environment     map[string]string `yaml:"environment"`
}

// CacheDTO configures the result cache.
type CacheDTO struct {
	Dir             string         `yaml:"dir"`
	MaxAge          *time.Duration `yaml:"maxAge"`
	MaxSize         *int64         `yaml:"maxSize"`
	Compress        *bool          `yaml:"compress"`
	CleanupInterval *time.Duration `yaml:"cleanupInterval"`
}

// VerifyDTO configures accuracy verification.
type VerifyDTO struct {
	SampleRate     *float64 `yaml:"sampleRate"`
	MinPerCategory *int     `yaml:"minPerCategory"`
	Threshold      *float64 `yaml:"threshold"`
	HistorySize    *int     `yaml:"historySize"`
	HistoryPath    string   `yaml:"historyPath"`
	Seed           *uint64  `yaml:"seed"`
}

// GitDTO configures change detection.
type GitDTO struct {
	BaseRef            string `yaml:"baseRef"`
	IncludeWorkingTree *bool  `yaml:"includeWorkingTree"`
}

// MetricsDTO configures the Prometheus text file export.
type MetricsDTO struct {
	Textfile string `yaml:"textfile"`
}
