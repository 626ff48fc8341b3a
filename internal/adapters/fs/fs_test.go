package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/fs"
	"go.trai.ch/retest/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "a")
	writeFile(t, root, "src/b.ts", "b")
	writeFile(t, root, "src/deep/c.ts", "c")
	writeFile(t, root, ".git/config", "git")
	writeFile(t, root, ".retest/cache/results.json", "{}")
	writeFile(t, root, "node_modules/pkg/index.js", "x")

	files := slices.Collect(fs.NewWalker().WalkFiles(root, []string{"**/node_modules/**"}))
	slices.Sort(files)

	assert.Equal(t, []string{"a.ts", "src/b.ts", "src/deep/c.ts"}, files)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "a")
	writeFile(t, root, "b.ts", "b")

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFileSystem_Discover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/math.ts", "")
	writeFile(t, root, "src/math.test.ts", "")
	writeFile(t, root, "src/ui/button.spec.tsx", "")
	writeFile(t, root, "src/readme.md", "")
	writeFile(t, root, "dist/math.test.js", "")
	writeFile(t, root, "src.test.ts", "")

	filesystem := fs.NewFileSystem(root, fs.NewWalker())
	tests, err := filesystem.Discover(context.Background(), domain.Patterns{
		Include: []string{"**/*.test.{ts,tsx,js}", "**/*.spec.{ts,tsx,js}"},
		Exclude: []string{"dist/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src.test.ts", "src/math.test.ts", "src/ui/button.spec.tsx"}, tests)
}

func TestFileSystem_Discover_InvalidPattern(t *testing.T) {
	filesystem := fs.NewFileSystem(t.TempDir(), fs.NewWalker())

	_, err := filesystem.Discover(context.Background(), domain.Patterns{Include: []string{"src/[a"}})
	require.Error(t, err)
}

func TestFileSystem_Discover_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.test.ts", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewFileSystem(root, fs.NewWalker()).Discover(ctx, domain.Patterns{Include: []string{"**/*.ts"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileSystem_ReadFileAndExists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export const a = 1")
	filesystem := fs.NewFileSystem(root, fs.NewWalker())

	data, err := filesystem.ReadFile("src/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "export const a = 1", string(data))

	assert.True(t, filesystem.Exists("src/a.ts"))
	assert.False(t, filesystem.Exists("src"))
	assert.False(t, filesystem.Exists("src/missing.ts"))

	_, err = filesystem.ReadFile("src/missing.ts")
	require.Error(t, err)
}

func TestHasher_Hash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "one")

	hasher, err := fs.NewHasher(root, 0)
	require.NoError(t, err)

	first, err := hasher.Hash("src/a.ts")
	require.NoError(t, err)
	assert.Len(t, first, 16)

	again, err := hasher.Hash("src/a.ts")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Same size, new content and a new mtime.
	path := filepath.Join(root, "src", "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := hasher.Hash("src/a.ts")
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestHasher_Hash_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "one")

	hasher, err := fs.NewHasher(root, 16)
	require.NoError(t, err)

	_, err = hasher.Hash("src/missing.ts")
	require.Error(t, err)

	_, err = hasher.Hash("src")
	require.Error(t, err)
}
