package domain

import "time"

// TestStatus is the outcome of a single test file.
type TestStatus string

const (
	// StatusPassed means every assertion in the file passed.
	StatusPassed TestStatus = "passed"
	// StatusFailed means at least one assertion failed or the file could not run.
	StatusFailed TestStatus = "failed"
	// StatusSkipped means the file was collected but not executed.
	StatusSkipped TestStatus = "skipped"
)

// TestResult is the outcome of running one test file. It is never mutated after creation.
type TestResult struct {
	TestFile  string        `json:"testFile"`
	Status    TestStatus    `json:"status"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	// Coverage maps covered files to their statement coverage in the range [0, 1].
	Coverage map[string]float64 `json:"coverage,omitempty"`
	Errors   []string           `json:"errors,omitempty"`
	// Assertions counts passed and failed assertions when the runner reported them.
	Assertions *AssertionCounts `json:"assertions,omitempty"`
}

// AssertionCounts summarizes per-assertion outcomes.
type AssertionCounts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Failed reports whether the result is a failure.
func (r TestResult) Failed() bool {
	return r.Status == StatusFailed
}

// OutputFormat tags how an ExecutionOutput should be interpreted.
type OutputFormat string

const (
	// FormatStructured means the runner emitted a machine readable report.
	FormatStructured OutputFormat = "structured"
	// FormatRaw means only the exit code and streams are available.
	FormatRaw OutputFormat = "raw"
)

// ExecutionOutput is the tagged output of one test command invocation.
type ExecutionOutput struct {
	Format OutputFormat
	// Report is set when Format is FormatStructured.
	Report *StructuredReport
	// Raw is always set.
	Raw RawOutput
}

// RawOutput carries the process level outcome of an invocation.
type RawOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// StructuredReport is a runner agnostic view of a structured test report.
type StructuredReport struct {
	Files []FileReport
}

// FileReport is the structured outcome of one test file.
type FileReport struct {
	// Path is the root-relative path of the test file.
	Path       string
	Status     TestStatus
	Duration   time.Duration
	Message    string
	Assertions AssertionCounts
	Coverage   map[string]float64
}
