package ports

import (
	"context"
	"io"

	"go.trai.ch/retest/internal/core/domain"
)

// TestExecutor runs the test command for a set of test files.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type TestExecutor interface {
	// Execute runs one invocation of the test command for the given root-relative files.
	// The command's diagnostic output is copied to output when it is not nil.
	//
	// A non-zero exit or a timeout is not an error: it is reported in the output.
	// An error is returned only when the command could not be started at all.
	Execute(ctx context.Context, files []string, output io.Writer) (domain.ExecutionOutput, error)
}
