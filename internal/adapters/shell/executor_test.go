package shell_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/shell"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T, root string, command []string, timeout time.Duration) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return shell.NewExecutor(log, root, domain.RunnerConfig{
		Command: command,
		Timeout: timeout,
		Env:     []string{"RETEST_MARKER=present"},
	})
}

func TestExecutor_Execute_RawOutput(t *testing.T) {
	root := t.TempDir()
	executor := newExecutor(t, root, []string{"sh", "-c", `echo "args:$*"; echo oops >&2; exit 3`, "sh"}, time.Minute)

	var output bytes.Buffer
	out, err := executor.Execute(context.Background(), []string{"a.test.ts", "b.test.ts"}, &output)
	require.NoError(t, err)

	assert.Equal(t, domain.FormatRaw, out.Format)
	assert.Nil(t, out.Report)
	assert.Equal(t, 3, out.Raw.ExitCode)
	assert.Contains(t, out.Raw.Stdout, "args:a.test.ts b.test.ts")
	assert.Contains(t, out.Raw.Stderr, "oops")
	assert.False(t, out.Raw.TimedOut)
	assert.Equal(t, "oops\n", output.String(), "only stderr is copied")
}

func TestExecutor_Execute_Placeholder(t *testing.T) {
	root := t.TempDir()
	executor := newExecutor(t, root, []string{"sh", "-c", `echo "first:$1 last:$#"`, "sh", "{files}", "--end"}, time.Minute)

	out, err := executor.Execute(context.Background(), []string{"x.test.ts"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Raw.ExitCode)
	assert.Contains(t, out.Raw.Stdout, "first:x.test.ts last:2")
}

func TestExecutor_Execute_WorkingDirAndEnv(t *testing.T) {
	root := t.TempDir()
	executor := newExecutor(t, root, []string{"sh", "-c", `pwd; echo "marker=$RETEST_MARKER"`, "sh"}, time.Minute)

	out, err := executor.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Contains(t, out.Raw.Stdout, resolved)
	assert.Contains(t, out.Raw.Stdout, "marker=present")
}

func TestExecutor_Execute_StructuredReport(t *testing.T) {
	root := t.TempDir()
	report := `{"numFailedTests":1,"testResults":[` +
		`{"name":"` + filepath.Join(root, "src", "a.test.ts") + `","status":"passed","startTime":1000,"endTime":1250,"message":"",` +
		`"assertionResults":[{"status":"passed"},{"status":"passed"}]},` +
		`{"name":"` + filepath.Join(root, "src", "b.test.ts") + `","status":"failed","startTime":1000,"endTime":1100,"message":"",` +
		`"assertionResults":[{"status":"passed"},{"status":"failed","failureMessages":["expected 1 to be 2"]}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.json"), []byte(report), 0o600))

	executor := newExecutor(t, root, []string{"sh", "-c", "echo 'RUN v1.0.0'; cat report.json; exit 1", "sh"}, time.Minute)

	out, err := executor.Execute(context.Background(), []string{"src/a.test.ts", "src/b.test.ts"}, nil)
	require.NoError(t, err)

	require.Equal(t, domain.FormatStructured, out.Format)
	require.NotNil(t, out.Report)
	require.Len(t, out.Report.Files, 2)

	a, b := out.Report.Files[0], out.Report.Files[1]
	assert.Equal(t, "src/a.test.ts", a.Path)
	assert.Equal(t, domain.StatusPassed, a.Status)
	assert.Equal(t, 250*time.Millisecond, a.Duration)
	assert.Equal(t, 2, a.Assertions.Passed)

	assert.Equal(t, "src/b.test.ts", b.Path)
	assert.Equal(t, domain.StatusFailed, b.Status)
	assert.Equal(t, 1, b.Assertions.Failed)
	assert.Equal(t, "expected 1 to be 2", b.Message)
	assert.Equal(t, 1, out.Raw.ExitCode)
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	root := t.TempDir()
	executor := newExecutor(t, root, []string{"sleep", "10"}, 100*time.Millisecond)

	start := time.Now()
	out, err := executor.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.True(t, out.Raw.TimedOut)
	assert.NotEqual(t, 0, out.Raw.ExitCode)
	assert.Equal(t, domain.FormatRaw, out.Format)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecutor_Execute_SpawnFailure(t *testing.T) {
	executor := newExecutor(t, t.TempDir(), []string{"retest-command-that-does-not-exist"}, time.Minute)

	_, err := executor.Execute(context.Background(), []string{"a.test.ts"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExecution))
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor := newExecutor(t, t.TempDir(), nil, time.Minute)

	_, err := executor.Execute(context.Background(), []string{"a.test.ts"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
