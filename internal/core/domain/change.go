package domain

import (
	"slices"
	"strings"
)

// ChangeSet is the set of files that differ between a base ref and the current state.
// Paths are slash separated and relative to the project root. A ChangeSet is immutable
// once built; use NewChangeSet to construct one.
type ChangeSet struct {
	// BaseRef is the ref the diff was computed against, as given by the caller.
	BaseRef string
	// IncludesWorkingTree reports whether uncommitted changes were unioned in.
	IncludesWorkingTree bool

	changed []string
	deleted []string
}

// NewChangeSet builds a ChangeSet from changed and deleted paths.
// Deleted paths are also reported as changed. Duplicates are removed.
func NewChangeSet(baseRef string, includesWorkingTree bool, changed, deleted []string) ChangeSet {
	del := normalizePaths(deleted)
	all := normalizePaths(append(slices.Clone(changed), del...))
	return ChangeSet{
		BaseRef:             baseRef,
		IncludesWorkingTree: includesWorkingTree,
		changed:             all,
		deleted:             del,
	}
}

// ChangedFiles returns the sorted changed paths, including deleted ones.
func (c ChangeSet) ChangedFiles() []string {
	return slices.Clone(c.changed)
}

// DeletedFiles returns the sorted paths that no longer exist at the new state,
// including the old side of renames.
func (c ChangeSet) DeletedFiles() []string {
	return slices.Clone(c.deleted)
}

// Contains reports whether path is part of the change set.
func (c ChangeSet) Contains(path string) bool {
	_, ok := slices.BinarySearch(c.changed, path)
	return ok
}

// IsDeleted reports whether path was deleted or renamed away.
func (c ChangeSet) IsDeleted(path string) bool {
	_, ok := slices.BinarySearch(c.deleted, path)
	return ok
}

// Len returns the number of changed paths.
func (c ChangeSet) Len() int {
	return len(c.changed)
}

// IsEmpty reports whether nothing changed.
func (c ChangeSet) IsEmpty() bool {
	return len(c.changed) == 0
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "./")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
