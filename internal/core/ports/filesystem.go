package ports

import (
	"context"

	"go.trai.ch/retest/internal/core/domain"
)

// FileSystem gives read access to the project tree. Paths are root-relative.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Discover returns the sorted files matching the patterns.
	Discover(ctx context.Context, patterns domain.Patterns) ([]string, error)
	// ReadFile returns the content of a file.
	ReadFile(path string) ([]byte, error)
	// Exists reports whether path is a regular file.
	Exists(path string) bool
}

// FileHasher fingerprints files.
type FileHasher interface {
	// Hash returns the fingerprint of a file over its content, modification time and size.
	Hash(path string) (string, error)
}
