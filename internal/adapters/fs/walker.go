// Package fs provides file system adapters for discovering, reading and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/retest/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the slash separated, root-relative paths of all regular files under
// root. VCS metadata, the state directory and directories fully covered by an exclude
// pattern are not entered.
func (w *Walker) WalkFiles(root string, excludes []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return err
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil //nolint:nilerr // The root itself and unrelatable paths are skipped
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if w.shouldSkipDir(d.Name(), rel, excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(rel) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkipDir reports whether nothing inside the directory can be selected.
func (w *Walker) shouldSkipDir(name, rel string, excludes []string) bool {
	switch name {
	case ".git", ".jj", ".hg", domain.StateDirName:
		return true
	}
	// A pattern matching an arbitrary child excludes the whole subtree.
	probe := rel + "/\x00"
	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, probe); ok {
			return true
		}
	}
	return false
}
