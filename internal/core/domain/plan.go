package domain

import "time"

// Strategy is the kind of execution plan.
type Strategy string

const (
	// StrategyFull runs every discovered test.
	StrategyFull Strategy = "full"
	// StrategyIncremental runs affected tests whose cache entries are invalid.
	StrategyIncremental Strategy = "incremental"
	// StrategyCached runs nothing and reuses prior results.
	StrategyCached Strategy = "cached"
)

// ExecutionPlan is the decision of which tests to run and which to serve from cache.
// It is computed once per run and not mutated during execution.
type ExecutionPlan struct {
	Strategy          Strategy      `json:"strategy"`
	TestsToRun        []string      `json:"testsToRun"`
	TestsFromCache    []string      `json:"testsFromCache"`
	EstimatedDuration time.Duration `json:"estimatedDuration"`
	CacheHitRate      float64       `json:"cacheHitRate"`
	AffectedFiles     []string      `json:"affectedFiles"`
	Reason            string        `json:"reason"`

	// CachedResults holds the results served from cache, keyed by test file.
	CachedResults map[string]TestResult `json:"-"`
	// Coverage holds the dependency snapshot for every test the plan touches.
	Coverage map[string]TestCoverage `json:"-"`
	// ChangeSet is the change set the plan was computed from.
	ChangeSet ChangeSet `json:"-"`
}

// RunReport is the outcome of executing a plan.
type RunReport struct {
	Plan          ExecutionPlan `json:"plan"`
	Results       []TestResult  `json:"results"`
	CachedResults []TestResult  `json:"cachedResults"`
	Duration      time.Duration `json:"duration"`
	TimeSaved     time.Duration `json:"timeSaved"`
	CacheStats    CacheStats    `json:"cacheStats"`
}

// Failed returns the fresh and cached results that failed. A failure served from cache
// still fails the run.
func (r RunReport) Failed() []TestResult {
	var failed []TestResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	for _, res := range r.CachedResults {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Result returns the fresh or cached result for a test.
func (r RunReport) Result(testFile string) (TestResult, bool) {
	for _, res := range r.Results {
		if res.TestFile == testFile {
			return res, true
		}
	}
	for _, res := range r.CachedResults {
		if res.TestFile == testFile {
			return res, true
		}
	}
	return TestResult{}, false
}
