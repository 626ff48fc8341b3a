package ports

import "context"

// FileChange is a single entry of a diff.
type FileChange struct {
	// Path is the root-relative path on the new side. Empty for deletions.
	Path string
	// OldPath is the root-relative path on the old side. Empty for additions.
	OldPath string
}

// VersionControl is the read-only view of the repository needed for change detection.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type VersionControl interface {
	// IsRepository reports whether the project root is inside a work tree.
	IsRepository(ctx context.Context) (bool, error)
	// ResolveRef resolves a ref to a commit hash.
	ResolveRef(ctx context.Context, ref string) (string, error)
	// Diff returns the changes between two commits.
	Diff(ctx context.Context, base, head string) ([]FileChange, error)
	// WorkingTreeDiff returns staged and unstaged changes against HEAD.
	WorkingTreeDiff(ctx context.Context) ([]FileChange, error)
	// UntrackedFiles returns files not tracked and not ignored.
	UntrackedFiles(ctx context.Context) ([]string, error)
	// IsWorkingTreeDirty reports whether there are uncommitted changes.
	IsWorkingTreeDirty(ctx context.Context) (bool, error)
}
