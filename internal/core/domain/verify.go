package domain

import (
	"path"
	"strings"
	"time"
)

// TestCategory is the stratum a test file belongs to during verification sampling.
type TestCategory string

const (
	CategoryUnit        TestCategory = "unit"
	CategoryIntegration TestCategory = "integration"
	CategoryE2E         TestCategory = "e2e"
	CategoryAPI         TestCategory = "api"
	CategoryComponent   TestCategory = "component"
	CategoryOther       TestCategory = "other"
)

// Categories lists every category in a stable order.
var Categories = []TestCategory{
	CategoryUnit,
	CategoryIntegration,
	CategoryE2E,
	CategoryAPI,
	CategoryComponent,
	CategoryOther,
}

// categoryMarkers are matched against directory names and file name segments, in order.
var categoryMarkers = []struct {
	category TestCategory
	markers  []string
}{
	{CategoryE2E, []string{"e2e", "end-to-end", "playwright", "cypress"}},
	{CategoryIntegration, []string{"integration", "int"}},
	{CategoryAPI, []string{"api", "routes", "handlers", "endpoints"}},
	{CategoryComponent, []string{"component", "components", "ui", "views"}},
	{CategoryUnit, []string{"unit", "lib", "utils", "src"}},
}

// CategoryOf derives the category of a test file from its path.
func CategoryOf(file string) TestCategory {
	lower := strings.ToLower(file)
	dir, base := path.Split(lower)
	segments := strings.Split(strings.Trim(dir, "/"), "/")
	segments = append(segments, strings.Split(base, ".")...)

	for _, c := range categoryMarkers {
		for _, m := range c.markers {
			for _, seg := range segments {
				if seg == m {
					return c.category
				}
			}
		}
	}
	if strings.HasSuffix(base, ".tsx") || strings.HasSuffix(base, ".jsx") {
		return CategoryComponent
	}
	return CategoryOther
}

// Mismatch is a sampled test whose prediction disagreed with ground truth.
type Mismatch struct {
	TestFile  string     `json:"testFile"`
	Predicted TestStatus `json:"predicted"`
	Actual    TestStatus `json:"actual"`
}

// VerificationResult compares incremental predictions with freshly executed ground truth.
type VerificationResult struct {
	IsAccurate bool `json:"isAccurate"`
	// MissedTests were sampled but had no prediction at all.
	MissedTests []string `json:"missedTests"`
	// ExtraTests were run incrementally but not sampled.
	ExtraTests []string `json:"extraTests"`
	// FalsePositives were predicted to pass but actually fail.
	FalsePositives []Mismatch `json:"falsePositives"`
	// FalseNegatives were predicted to fail but actually pass.
	FalseNegatives []Mismatch `json:"falseNegatives"`

	Accuracy          float64              `json:"accuracy"`
	Precision         float64              `json:"precision"`
	Recall            float64              `json:"recall"`
	SampleSize        int                  `json:"sampleSize"`
	SampledByCategory map[TestCategory]int `json:"sampledByCategory"`
	ComparisonReport  string               `json:"comparisonReport"`
	Record            VerificationRecord   `json:"record"`
}

// VerificationRecord is one row of the bounded verification history.
type VerificationRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Accuracy    float64   `json:"accuracy"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	SampleSize  int       `json:"sampleSize"`
	IsAccurate  bool      `json:"isAccurate"`
	MissedTests []string  `json:"missedTests,omitempty"`
}

// MissPattern is a path fragment that recurs among missed tests.
type MissPattern struct {
	Pattern     string `json:"pattern"`
	Kind        string `json:"kind"`
	Occurrences int    `json:"occurrences"`
}

// Trends summarizes the verification history.
type Trends struct {
	Records          int           `json:"records"`
	Window           int           `json:"window"`
	RecentAccuracy   float64       `json:"recentAccuracy"`
	RecentPrecision  float64       `json:"recentPrecision"`
	RecentRecall     float64       `json:"recentRecall"`
	OverallAccuracy  float64       `json:"overallAccuracy"`
	OverallPrecision float64       `json:"overallPrecision"`
	OverallRecall    float64       `json:"overallRecall"`
	InaccurateRuns   int           `json:"inaccurateRuns"`
	MissPatterns     []MissPattern `json:"missPatterns"`
}
