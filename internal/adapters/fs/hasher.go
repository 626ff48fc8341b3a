package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileHasher = (*Hasher)(nil)

// DefaultMemoSize is the number of file fingerprints kept in memory.
const DefaultMemoSize = 8192

type memoKey struct {
	path  string
	mtime int64
	size  int64
}

// Hasher fingerprints files over their content, modification time and size.
// Fingerprints are memoised per (path, mtime, size), so a touched file is always rehashed.
type Hasher struct {
	root string
	memo *lru.Cache[memoKey, string]
}

// NewHasher creates a Hasher for files under root.
func NewHasher(root string, memoSize int) (*Hasher, error) {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[memoKey, string](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create hash memo")
	}
	return &Hasher{root: root, memo: memo}, nil
}

// Hash returns the fingerprint of a root-relative file.
func (h *Hasher) Hash(path string) (string, error) {
	abs := filepath.Join(h.root, filepath.FromSlash(path))

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	if info.IsDir() {
		return "", zerr.With(domain.ErrFileHashFailed, "path", path)
	}

	key := memoKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if sum, ok := h.memo.Get(key); ok {
		return sum, nil
	}

	sum, err := h.hashFile(abs, key)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	h.memo.Add(key, sum)
	return sum, nil
}

func (h *Hasher) hashFile(abs string, key memoKey) (string, error) {
	f, err := os.Open(abs) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.Wrap(err, "failed to open file")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.Wrap(err, domain.ErrFileHashFailed.Error())
	}
	_, _ = hasher.Write([]byte{0})

	var meta [16]byte
	binary.LittleEndian.PutUint64(meta[:8], uint64(key.mtime)) //nolint:gosec // Bit pattern only
	binary.LittleEndian.PutUint64(meta[8:], uint64(key.size))  //nolint:gosec // Size is never negative
	_, _ = hasher.Write(meta[:])

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
