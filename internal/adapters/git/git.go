// Package git implements ports.VersionControl by shelling out to the git executable.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VersionControl = (*Client)(nil)

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 30 * time.Second

// Client runs git commands in the project root. All reported paths are relative to it.
type Client struct {
	root     string
	timeout  time.Duration
	lookPath func() (string, error)
}

// NewClient creates a Client for the work tree containing root.
func NewClient(root string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		root:     root,
		timeout:  timeout,
		lookPath: sync.OnceValues(func() (string, error) { return exec.LookPath("git") }),
	}
}

// run executes git with args and returns its stdout.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	gitPath, err := c.lookPath()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrGitUnavailable.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath, args...) //nolint:gosec // Arguments are built by this package
	cmd.Dir = c.root
	cmd.Env = append(cmd.Environ(), "GIT_OPTIONAL_LOCKS=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, zerr.With(zerr.With(zerr.Wrap(err, "git timed out"), "command", args[0]), "timeout", c.timeout.String())
		}
		err = zerr.With(zerr.Wrap(err, "git "+args[0]+" failed"), "stderr", strings.TrimSpace(stderr.String()))
		return nil, err
	}
	return stdout.Bytes(), nil
}

// IsRepository reports whether the root is inside a git work tree.
// A missing git executable is an error, a directory outside any repository is not.
func (c *Client) IsRepository(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

// ResolveRef resolves ref to a commit hash.
func (c *Client) ResolveRef(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--verify", "--quiet", "--end-of-options", ref+"^{commit}")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRefNotFound.Error()), "ref", ref)
	}
	return strings.TrimSpace(string(out)), nil
}

// Diff returns the changes between two commits, with rename detection.
func (c *Client) Diff(ctx context.Context, base, head string) ([]ports.FileChange, error) {
	return c.diff(ctx, base, head)
}

// WorkingTreeDiff returns staged and unstaged changes against HEAD.
func (c *Client) WorkingTreeDiff(ctx context.Context) ([]ports.FileChange, error) {
	return c.diff(ctx, "HEAD")
}

func (c *Client) diff(ctx context.Context, revs ...string) ([]ports.FileChange, error) {
	args := append([]string{
		"diff", "--no-color", "--no-ext-diff", "--no-textconv", "-U0", "-M", "--relative",
		"--src-prefix=a/", "--dst-prefix=b/",
	}, revs...)
	args = append(args, "--")

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDiffFailed.Error()), "revs", strings.Join(revs, ".."))
	}

	changes, err := parsePatch(out)
	if err == nil {
		return changes, nil
	}

	// Patches go-diff cannot read, such as mode-only changes mixed with renames, are
	// retried through the name-status listing.
	statusArgs := append([]string{"diff", "--name-status", "-z", "-M", "--relative"}, revs...)
	statusArgs = append(statusArgs, "--")
	out, statusErr := c.run(ctx, statusArgs...)
	if statusErr != nil {
		return nil, zerr.With(zerr.Wrap(statusErr, domain.ErrDiffFailed.Error()), "revs", strings.Join(revs, ".."))
	}
	return parseNameStatus(out), nil
}

// UntrackedFiles returns files that are neither tracked nor ignored.
func (c *Client) UntrackedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, err
	}
	return splitNUL(out), nil
}

// IsWorkingTreeDirty reports whether there are staged, unstaged or untracked changes.
func (c *Client) IsWorkingTreeDirty(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain", "--untracked-files=normal", "--", ".")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

func splitNUL(out []byte) []string {
	var paths []string
	for _, p := range bytes.Split(out, []byte{0}) {
		if len(p) > 0 {
			paths = append(paths, string(p))
		}
	}
	return paths
}
