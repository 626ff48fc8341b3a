package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem gives glob based discovery and read access to files under a project root.
type FileSystem struct {
	root   string
	walker *Walker
}

// NewFileSystem creates a FileSystem rooted at root.
func NewFileSystem(root string, walker *Walker) *FileSystem {
	return &FileSystem{root: root, walker: walker}
}

// Discover returns the sorted root-relative files matching an include pattern and no
// exclude pattern.
func (f *FileSystem) Discover(ctx context.Context, patterns domain.Patterns) ([]string, error) {
	if err := patterns.Validate(); err != nil {
		return nil, err
	}

	var files []string
	for rel := range f.walker.WalkFiles(f.root, patterns.Exclude) {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, domain.ErrDiscoveryFailed.Error())
		}
		if patterns.Match(rel) {
			files = append(files, rel)
		}
	}
	slices.Sort(files)
	return files, nil
}

// ReadFile returns the content of a root-relative file.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(path))) //nolint:gosec // Root-relative path
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return data, nil
}

// Exists reports whether path is a regular file.
func (f *FileSystem) Exists(path string) bool {
	info, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(path)))
	return err == nil && info.Mode().IsRegular()
}
