// Package report prints command outcomes as colored text or JSON.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/ui/output"
	"go.trai.ch/retest/internal/ui/style"
)

var _ ports.Reporter = (*Text)(nil)

// Text implements ports.Reporter with human readable, colored output.
type Text struct {
	w   io.Writer
	out *termenv.Output
}

// NewTextWithProfile creates a Text reporter with a custom color profile selector.
func NewTextWithProfile(w io.Writer, profileFn func() termenv.Profile) *Text {
	return &Text{w: w, out: output.NewWithProfile(w, profileFn)}
}

func (t *Text) color(s, hex string) string {
	return t.out.String(s).Foreground(t.out.Color(hex)).String()
}

func (t *Text) faint(s string) string {
	return t.out.String(s).Faint().String()
}

func (t *Text) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.w, format, args...)
}

// Plan prints the strategy and the test lists of a plan.
func (t *Text) Plan(plan domain.ExecutionPlan) error {
	t.printf("%s %s\n", t.color("Strategy:", style.Iris), plan.Strategy)
	if plan.Reason != "" {
		t.printf("  %s\n", t.faint(plan.Reason))
	}
	for _, test := range plan.TestsToRun {
		t.printf("%s run    %s\n", t.color(style.Arrow, style.Iris), test)
	}
	for _, test := range plan.TestsFromCache {
		t.printf("%s cached %s\n", t.color(style.Tilde, style.Slate), test)
	}
	t.printf("%d to run, %d from cache, hit rate %s, estimated %s\n",
		len(plan.TestsToRun), len(plan.TestsFromCache), percent(plan.CacheHitRate), duration(plan.EstimatedDuration))
	return nil
}

// Run prints every result followed by a summary.
func (t *Text) Run(report domain.RunReport) error {
	for _, res := range report.Results {
		t.result(res, false)
	}
	for _, res := range report.CachedResults {
		t.result(res, true)
	}

	failed := len(report.Failed())
	total := len(report.Results) + len(report.CachedResults)
	summary := fmt.Sprintf("%d passed", total-failed)
	if failed > 0 {
		summary = t.color(fmt.Sprintf("%d failed", failed), style.Red) + ", " + summary
	}

	if len(report.Results) > 0 || len(report.CachedResults) > 0 {
		t.printf("\n")
	}
	t.printf("Tests: %s (%d cached) in %s, saved %s\n",
		summary, len(report.CachedResults), duration(report.Duration), duration(report.TimeSaved))
	t.cacheLine(report.CacheStats)
	return nil
}

func (t *Text) result(res domain.TestResult, cached bool) {
	var icon string
	switch res.Status {
	case domain.StatusFailed:
		icon = t.color(style.Cross, style.Red)
	case domain.StatusSkipped:
		icon = t.color(style.Circle, style.Yellow)
	default:
		icon = t.color(style.Check, style.Green)
	}

	detail := duration(res.Duration)
	if cached {
		icon = t.color(style.Tilde, style.Slate)
		if res.Failed() {
			icon = t.color(style.Cross, style.Red)
		}
		detail = "cached, " + detail
	}
	t.printf("%s %s %s\n", icon, res.TestFile, t.faint("("+detail+")"))

	for _, msg := range res.Errors {
		for line := range strings.Lines(msg) {
			t.printf("    %s\n", strings.TrimRight(line, "\r\n"))
		}
	}
}

func (t *Text) cacheLine(stats domain.CacheStats) {
	t.printf("Cache: %d entries, %d hits, %d misses (hit rate %s)\n",
		stats.Entries, stats.Hits, stats.Misses, percent(stats.HitRate))
}

// Verification prints the verdict, the metrics and the mismatches.
func (t *Text) Verification(result domain.VerificationResult) error {
	verdict := t.color(style.Check, style.Green) + " Selection accurate"
	if !result.IsAccurate {
		verdict = t.color(style.Cross, style.Red) + " Selection inaccurate"
	}
	t.printf("%s (accuracy %s, precision %s, recall %s, %d sampled)\n",
		verdict, percent(result.Accuracy), percent(result.Precision), percent(result.Recall), result.SampleSize)

	if len(result.SampledByCategory) > 0 {
		parts := make([]string, 0, len(result.SampledByCategory))
		for _, category := range domain.Categories {
			if n, ok := result.SampledByCategory[category]; ok {
				parts = append(parts, fmt.Sprintf("%s: %d", category, n))
			}
		}
		t.printf("  %s\n", t.faint(strings.Join(parts, "  ")))
	}

	for _, test := range result.MissedTests {
		t.printf("  %s missed %s\n", t.color(style.Warning, style.Yellow), test)
	}
	for _, m := range result.FalsePositives {
		t.printf("  %s hidden failure %s (predicted %s, actual %s)\n",
			t.color(style.Cross, style.Red), m.TestFile, m.Predicted, m.Actual)
	}
	for _, m := range result.FalseNegatives {
		t.printf("  %s wasted re-run %s (predicted %s, actual %s)\n",
			t.color(style.Tilde, style.Slate), m.TestFile, m.Predicted, m.Actual)
	}
	if len(result.ExtraTests) > 0 {
		t.printf("  %s\n", t.faint(fmt.Sprintf("%d tests ran incrementally outside the sample", len(result.ExtraTests))))
	}
	return nil
}

// CacheStats prints a cache statistics table.
func (t *Text) CacheStats(stats domain.CacheStats) error {
	rows := [][2]string{
		{"Entries", fmt.Sprint(stats.Entries)},
		{"Size", bytesize(stats.SizeBytes)},
		{"Hits", fmt.Sprint(stats.Hits)},
		{"Misses", fmt.Sprint(stats.Misses)},
		{"Invalidations", fmt.Sprint(stats.Invalidations)},
		{"Evictions", fmt.Sprint(stats.Evictions)},
		{"Hit rate", percent(stats.HitRate)},
	}
	for _, row := range rows {
		t.printf("%-14s %s\n", row[0]+":", row[1])
	}
	return nil
}

// Trends prints moving averages and recurring miss patterns.
func (t *Text) Trends(trends domain.Trends) error {
	if trends.Records == 0 {
		t.printf("No verification history\n")
		return nil
	}
	t.printf("History: %d runs, %d inaccurate\n", trends.Records, trends.InaccurateRuns)
	t.printf("Recent (last %d): accuracy %s, precision %s, recall %s\n",
		min(trends.Window, trends.Records),
		percent(trends.RecentAccuracy), percent(trends.RecentPrecision), percent(trends.RecentRecall))
	t.printf("Overall:         accuracy %s, precision %s, recall %s\n",
		percent(trends.OverallAccuracy), percent(trends.OverallPrecision), percent(trends.OverallRecall))

	if len(trends.MissPatterns) > 0 {
		t.printf("Recurring misses:\n")
		for _, p := range trends.MissPatterns {
			t.printf("  %s %s %s (%d)\n", t.color(style.Warning, style.Yellow), p.Kind, p.Pattern, p.Occurrences)
		}
	}
	return nil
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func duration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

func bytesize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
