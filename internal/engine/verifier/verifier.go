// Package verifier audits incremental test selection against a sampled full run.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.trai.ch/retest/internal/engine/scheduler"
)

// Options overrides the configured sampling for one verification.
type Options struct {
	// SampleRate is the fraction of each category to sample. Zero keeps the configured rate.
	SampleRate float64
	// Seed seeds the sampling source. Zero keeps the configured seed.
	Seed uint64
}

// Verifier compares the predictions of an incremental run with freshly executed ground
// truth for a stratified sample of all tests.
type Verifier struct {
	cfg       domain.VerifyConfig
	analyzer  *analyzer.Analyzer
	scheduler *scheduler.Scheduler
	history   ports.HistoryStore
	metrics   ports.Metrics
	tracer    ports.Tracer
	logger    ports.Logger
}

// NewVerifier creates a new Verifier.
func NewVerifier(
	cfg domain.VerifyConfig,
	analyzer *analyzer.Analyzer,
	scheduler *scheduler.Scheduler,
	history ports.HistoryStore,
	metrics ports.Metrics,
	tracer ports.Tracer,
	logger ports.Logger,
) *Verifier {
	return &Verifier{
		cfg:       cfg,
		analyzer:  analyzer,
		scheduler: scheduler,
		history:   history,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// Verify samples the discovered tests, executes the sample without the cache and compares
// each outcome with the prediction of the incremental run in report. Only tests the plan
// ran or served from the cache have a prediction; any other sampled test is missed. The
// graph must have been built by the plan that produced report.
func (v *Verifier) Verify(ctx context.Context, report domain.RunReport, opts Options) (domain.VerificationResult, error) {
	ctx, span := v.tracer.Start(ctx, "verify")
	defer span.End()

	rate := v.cfg.SampleRate
	if opts.SampleRate > 0 {
		rate = opts.SampleRate
	}
	seed := v.cfg.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	v.logger.Debug(fmt.Sprintf("sampling %.1f%% of each category with seed %d", rate*100, seed))

	sample, byCategory := Sample(v.analyzer.Tests(), rate, v.cfg.MinPerCategory, newRand(seed))
	span.SetAttribute("sample_size", len(sample))

	truth, err := v.scheduler.Execute(ctx, sample)
	if err != nil {
		span.RecordError(err)
		return domain.VerificationResult{}, err
	}

	result := Compare(sample, truth, report.Result, v.cfg.Threshold)
	result.SampledByCategory = byCategory

	sampled := make(map[string]struct{}, len(sample))
	for _, t := range sample {
		sampled[t] = struct{}{}
	}
	result.ExtraTests = []string{}
	for _, t := range report.Plan.TestsToRun {
		if _, ok := sampled[t]; !ok {
			result.ExtraTests = append(result.ExtraTests, t)
		}
	}

	result.Record = domain.VerificationRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Accuracy:    result.Accuracy,
		Precision:   result.Precision,
		Recall:      result.Recall,
		SampleSize:  result.SampleSize,
		IsAccurate:  result.IsAccurate,
		MissedTests: result.MissedTests,
	}
	result.ComparisonReport = comparisonReport(result)

	if err := v.history.Append(result.Record, v.cfg.HistorySize); err != nil {
		v.logger.Warn(fmt.Sprintf("verification history not updated: %v", err))
	}
	v.metrics.SelectionAccuracy(result.Accuracy)

	span.SetAttribute("accuracy", result.Accuracy)
	span.SetAttribute("accurate", result.IsAccurate)
	return result, nil
}

// Compare scores predictions against ground truth with failed as the positive class.
//
// A sampled test without a prediction is missed and fails the check regardless of
// accuracy. Predicted passed but actually failed is a false positive, a hidden failure.
// Predicted failed but actually passed is a false negative, a wasted re-run. Precision is
// taken over predicted failures and recall over actual failures; both are 1 when their
// denominator is 0.
func Compare(
	sample []string,
	truth []domain.TestResult,
	predict func(string) (domain.TestResult, bool),
	threshold float64,
) domain.VerificationResult {
	actual := make(map[string]domain.TestResult, len(truth))
	for _, res := range truth {
		actual[res.TestFile] = res
	}

	result := domain.VerificationResult{
		MissedTests:    []string{},
		FalsePositives: []domain.Mismatch{},
		FalseNegatives: []domain.Mismatch{},
		SampleSize:     len(sample),
	}

	var total, correct, truePositives int
	for _, test := range sample {
		got, ok := actual[test]
		if !ok {
			continue
		}
		predicted, ok := predict(test)
		if !ok {
			result.MissedTests = append(result.MissedTests, test)
			continue
		}

		total++
		mismatch := domain.Mismatch{TestFile: test, Predicted: predicted.Status, Actual: got.Status}
		switch {
		case predicted.Failed() && got.Failed():
			truePositives++
			correct++
		case !predicted.Failed() && !got.Failed():
			correct++
		case got.Failed():
			result.FalsePositives = append(result.FalsePositives, mismatch)
		default:
			result.FalseNegatives = append(result.FalseNegatives, mismatch)
		}
	}

	result.Accuracy = ratio(correct, total)
	result.Precision = ratio(truePositives, truePositives+len(result.FalseNegatives))
	result.Recall = ratio(truePositives, truePositives+len(result.FalsePositives))
	result.IsAccurate = result.Accuracy >= threshold && len(result.MissedTests) == 0
	return result
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 1
	}
	return float64(n) / float64(d)
}

func comparisonReport(r domain.VerificationResult) string {
	var b strings.Builder
	verdict := "accurate"
	if !r.IsAccurate {
		verdict = "inaccurate"
	}
	fmt.Fprintf(&b, "selection %s: accuracy %.3f precision %.3f recall %.3f over %d sampled tests\n",
		verdict, r.Accuracy, r.Precision, r.Recall, r.SampleSize)

	categories := make([]string, 0, len(r.SampledByCategory))
	for _, c := range domain.Categories {
		if n, ok := r.SampledByCategory[c]; ok {
			categories = append(categories, fmt.Sprintf("%s=%d", c, n))
		}
	}
	if len(categories) > 0 {
		fmt.Fprintf(&b, "sampled: %s\n", strings.Join(categories, " "))
	}
	for _, t := range r.MissedTests {
		fmt.Fprintf(&b, "missed: %s\n", t)
	}
	for _, m := range r.FalsePositives {
		fmt.Fprintf(&b, "hidden failure: %s (predicted %s, actual %s)\n", m.TestFile, m.Predicted, m.Actual)
	}
	for _, m := range r.FalseNegatives {
		fmt.Fprintf(&b, "wasted re-run: %s (predicted %s, actual %s)\n", m.TestFile, m.Predicted, m.Actual)
	}
	if len(r.ExtraTests) > 0 {
		fmt.Fprintf(&b, "outside sample: %d tests\n", len(r.ExtraTests))
	}
	return b.String()
}

// Trends summarizes the verification history. Averages over the most recent window
// records are reported next to the overall averages. An unreadable history counts as empty.
func (v *Verifier) Trends(window int) (domain.Trends, error) {
	records, err := v.history.Load()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCache):
		v.logger.Warn(fmt.Sprintf("verification history unreadable, reporting no records: %v", err))
		records = nil
	default:
		return domain.Trends{}, err
	}
	if window <= 0 {
		window = len(records)
	}

	trends := domain.Trends{
		Records:      len(records),
		Window:       window,
		MissPatterns: MissPatterns(records),
	}
	recent := records[max(0, len(records)-window):]
	trends.RecentAccuracy, trends.RecentPrecision, trends.RecentRecall = averages(recent)
	trends.OverallAccuracy, trends.OverallPrecision, trends.OverallRecall = averages(records)
	for _, r := range records {
		if !r.IsAccurate {
			trends.InaccurateRuns++
		}
	}
	return trends, nil
}

func averages(records []domain.VerificationRecord) (float64, float64, float64) {
	if len(records) == 0 {
		return 0, 0, 0
	}
	var acc, prec, rec float64
	for _, r := range records {
		acc += r.Accuracy
		prec += r.Precision
		rec += r.Recall
	}
	n := float64(len(records))
	return acc / n, prec / n, rec / n
}

// MissPatterns returns directories and file stems that recur among missed tests, most
// frequent first. They hint at imports the dependency analysis does not see.
func MissPatterns(records []domain.VerificationRecord) []domain.MissPattern {
	type key struct{ kind, pattern string }
	counts := make(map[key]int)
	for _, r := range records {
		for _, t := range r.MissedTests {
			if dir := parentDir(t); dir != "" {
				counts[key{"dir", dir}]++
			}
			if stem := fileStem(t); stem != "" {
				counts[key{"name", stem}]++
			}
		}
	}

	patterns := []domain.MissPattern{}
	for k, n := range counts {
		if n >= 2 {
			patterns = append(patterns, domain.MissPattern{Pattern: k.pattern, Kind: k.kind, Occurrences: n})
		}
	}
	slices.SortFunc(patterns, func(a, b domain.MissPattern) int {
		if d := b.Occurrences - a.Occurrences; d != 0 {
			return d
		}
		if c := strings.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.Pattern, b.Pattern)
	})
	return patterns
}

func parentDir(file string) string {
	i := strings.LastIndex(file, "/")
	if i <= 0 {
		return ""
	}
	return file[:i]
}

// fileStem returns the base name up to its first dot, so a.test.ts and a.spec.tsx share
// the stem a.
func fileStem(file string) string {
	base := file[strings.LastIndex(file, "/")+1:]
	stem, _, _ := strings.Cut(base, ".")
	return stem
}
