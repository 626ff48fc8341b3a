package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/report"
	"go.trai.ch/retest/internal/core/domain"
)

func asciiProfile() termenv.Profile { return termenv.Ascii }

func samplePlan() domain.ExecutionPlan {
	return domain.ExecutionPlan{
		Strategy:          domain.StrategyIncremental,
		Reason:            "2 changed files affect 3 tests",
		TestsToRun:        []string{"src/a.test.ts", "src/b.test.ts"},
		TestsFromCache:    []string{"src/c.test.ts"},
		CacheHitRate:      1.0 / 3,
		EstimatedDuration: 2 * time.Second,
	}
}

func sampleRun() domain.RunReport {
	return domain.RunReport{
		Plan: samplePlan(),
		Results: []domain.TestResult{
			{TestFile: "src/a.test.ts", Status: domain.StatusPassed, Duration: 120 * time.Millisecond},
			{
				TestFile: "src/b.test.ts", Status: domain.StatusFailed, Duration: 80 * time.Millisecond,
				Errors: []string{"expected 1 to be 2\nat b.test.ts:4"},
			},
		},
		CachedResults: []domain.TestResult{
			{TestFile: "src/c.test.ts", Status: domain.StatusPassed, Duration: 50 * time.Millisecond},
		},
		Duration:   1200 * time.Millisecond,
		TimeSaved:  50 * time.Millisecond,
		CacheStats: domain.CacheStats{Entries: 3, Hits: 1, Misses: 2, HitRate: 1.0 / 3},
	}
}

func sampleVerification() domain.VerificationResult {
	return domain.VerificationResult{
		IsAccurate:        false,
		Accuracy:          0.75,
		Precision:         0.5,
		Recall:            1,
		SampleSize:        4,
		SampledByCategory: map[domain.TestCategory]int{domain.CategoryUnit: 3, domain.CategoryIntegration: 1},
		MissedTests:       []string{"src/x.test.ts"},
		FalseNegatives: []domain.Mismatch{
			{TestFile: "src/y.test.ts", Predicted: domain.StatusFailed, Actual: domain.StatusPassed},
		},
		ExtraTests: []string{"src/a.test.ts", "src/b.test.ts"},
	}
}

func TestText_Golden(t *testing.T) {
	tests := []struct {
		name   string
		render func(r *report.Text) error
	}{
		{"plan", func(r *report.Text) error { return r.Plan(samplePlan()) }},
		{"run", func(r *report.Text) error { return r.Run(sampleRun()) }},
		{"verification", func(r *report.Text) error { return r.Verification(sampleVerification()) }},
		{"cache_stats", func(r *report.Text) error {
			return r.CacheStats(domain.CacheStats{
				Entries: 12, SizeBytes: 3 << 10, Hits: 9, Misses: 3, Invalidations: 2, Evictions: 1, HitRate: 0.75,
			})
		}},
		{"trends", func(r *report.Text) error {
			return r.Trends(domain.Trends{
				Records: 12, Window: 10, InaccurateRuns: 1,
				RecentAccuracy: 0.98, RecentPrecision: 0.9, RecentRecall: 1,
				OverallAccuracy: 0.97, OverallPrecision: 0.85, OverallRecall: 0.95,
				MissPatterns: []domain.MissPattern{{Pattern: "src/legacy", Kind: "dir", Occurrences: 3}},
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(report.NewTextWithProfile(&buf, asciiProfile)))

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestText_TrendsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.NewTextWithProfile(&buf, asciiProfile).Trends(domain.Trends{}))
	assert.Equal(t, "No verification history\n", buf.String())
}

func TestJSON_Run(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf, true, asciiProfile)
	require.NoError(t, r.Run(sampleRun()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	plan, ok := decoded["plan"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "incremental", plan["strategy"])
	assert.NotContains(t, plan, "CachedResults")
	assert.Len(t, decoded["results"], 2)
	assert.Len(t, decoded["cachedResults"], 1)
}

func TestNew_SelectsText(t *testing.T) {
	var buf bytes.Buffer
	_, ok := report.New(&buf, false, asciiProfile).(*report.Text)
	assert.True(t, ok)
}
