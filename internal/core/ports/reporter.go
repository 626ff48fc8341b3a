package ports

import "go.trai.ch/retest/internal/core/domain"

// Reporter presents command outcomes to the user.
// It decouples the engine from presentation, so the same outcomes can be printed as
// colored text for a terminal or as JSON for tooling.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Plan prints an execution plan that was not executed.
	Plan(plan domain.ExecutionPlan) error
	// Run prints the outcome of an executed plan.
	Run(report domain.RunReport) error
	// Verification prints the outcome of an accuracy verification.
	Verification(result domain.VerificationResult) error
	// CacheStats prints a cache statistics snapshot.
	CacheStats(stats domain.CacheStats) error
	// Trends prints the verification history summary.
	Trends(trends domain.Trends) error
}
