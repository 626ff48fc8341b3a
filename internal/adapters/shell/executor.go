// Package shell provides the process based executor for running test commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

// FilesPlaceholder is the command template token replaced by the files of an invocation.
const FilesPlaceholder = "{files}"

// killGrace bounds how long Wait keeps draining output after the process was killed.
const killGrace = 2 * time.Second

// Executor implements ports.TestExecutor using os/exec.
type Executor struct {
	logger  ports.Logger
	root    string
	command []string
	env     []string
	timeout time.Duration
}

var _ ports.TestExecutor = (*Executor)(nil)

// NewExecutor creates an executor that runs the runner command from root.
func NewExecutor(logger ports.Logger, root string, runner domain.RunnerConfig) *Executor {
	return &Executor{
		logger:  logger,
		root:    root,
		command: runner.Command,
		env:     runner.Env,
		timeout: runner.Timeout,
	}
}

// Execute runs one invocation of the test command for files and waits for it to exit.
// Stderr is captured, streamed to the logger and copied to output.
func (e *Executor) Execute(ctx context.Context, files []string, output io.Writer) (domain.ExecutionOutput, error) {
	if len(e.command) == 0 {
		return domain.ExecutionOutput{}, errors.Join(domain.ErrConfiguration, domain.ErrEmptyCommand)
	}

	argv := expandCommand(e.command, files)
	env := resolveEnvironment(os.Environ(), e.env)

	executable := argv[0]
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = argv[0]
	cmd.Dir = e.root
	cmd.Env = env
	cmd.Cancel = func() error { return cmd.Process.Kill() }
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	stderrLog := &logWriter{logger: e.logger}
	cmd.Stdout = &stdout
	stderrSinks := []io.Writer{&stderr, stderrLog}
	if output != nil {
		stderrSinks = append(stderrSinks, output)
	}
	cmd.Stderr = io.MultiWriter(stderrSinks...)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.ExecutionOutput{}, errors.Join(domain.ErrExecution,
			zerr.With(zerr.Wrap(err, domain.ErrSpawnFailed.Error()), "command", argv[0]))
	}
	waitErr := cmd.Wait()
	_ = stderrLog.Close()

	raw := domain.RawOutput{
		ExitCode: exitCode(cmd, waitErr),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		TimedOut: ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	if err := ctx.Err(); err != nil {
		return domain.ExecutionOutput{Format: domain.FormatRaw, Raw: raw}, err
	}

	if raw.TimedOut {
		e.logger.Warn("test invocation timed out after " + e.timeout.String())
		return domain.ExecutionOutput{Format: domain.FormatRaw, Raw: raw}, nil
	}

	if report, ok := parseReport(stdout.Bytes(), e.root); ok {
		return domain.ExecutionOutput{Format: domain.FormatStructured, Report: report, Raw: raw}, nil
	}
	return domain.ExecutionOutput{Format: domain.FormatRaw, Raw: raw}, nil
}

// expandCommand substitutes FilesPlaceholder with files, or appends them when the template
// has no placeholder.
func expandCommand(command, files []string) []string {
	argv := make([]string, 0, len(command)+len(files))
	replaced := false
	for _, arg := range command {
		if arg == FilesPlaceholder {
			argv = append(argv, files...)
			replaced = true
			continue
		}
		argv = append(argv, arg)
	}
	if !replaced {
		argv = append(argv, files...)
	}
	return argv
}

func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Debug(msg)
}

// allowListedEnvVars are the system environment variables inherited by the test command.
// Everything else must be passed explicitly through runner.env.
var allowListedEnvVars = map[string]struct{}{
	"HOME":         {},
	"TERM":         {},
	"USER":         {},
	"PATH":         {},
	"TMPDIR":       {},
	"CI":           {},
	"NODE_OPTIONS": {},
}

// resolveEnvironment merges the allow-listed system environment with the runner overrides.
func resolveEnvironment(sysEnv, runnerEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range runnerEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
