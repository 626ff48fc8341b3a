// Package cas persists retest state documents: the result cache and the verification history.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*CacheStore)(nil)

// CacheStore implements ports.CacheStore as a single JSON document, optionally zstd compressed.
type CacheStore struct {
	dir      string
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewCacheStore creates a store writing into dir.
func NewCacheStore(dir string, compress bool) (*CacheStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}
	return &CacheStore{dir: dir, compress: compress, encoder: encoder, decoder: decoder}, nil
}

func (s *CacheStore) plainPath() string {
	return filepath.Join(s.dir, domain.CacheFileName)
}

func (s *CacheStore) compressedPath() string {
	return s.plainPath() + domain.CompressedSuffix
}

// Load reads the document. The configured format is preferred; a document written in the
// other format is still read so toggling compression keeps the cache warm.
func (s *CacheStore) Load() (*domain.CacheDocument, error) {
	paths := []string{s.plainPath(), s.compressedPath()}
	if s.compress {
		paths[0], paths[1] = paths[1], paths[0]
	}

	for _, path := range paths {
		//nolint:gosec // Path is constructed from the configured cache directory
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, cacheError(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), path)
		}

		if filepath.Ext(path) == domain.CompressedSuffix {
			data, err = s.decoder.DecodeAll(data, nil)
			if err != nil {
				return nil, cacheError(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), path)
			}
		}

		var doc domain.CacheDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, cacheError(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), path)
		}
		if doc.Version != domain.CacheDocumentVersion {
			return nil, cacheError(zerr.With(domain.ErrUnsupportedVersion, "version", doc.Version), path)
		}
		if doc.Entries == nil {
			doc.Entries = make(map[string]*domain.CacheEntry)
		}
		return &doc, nil
	}

	return &domain.CacheDocument{
		Version: domain.CacheDocumentVersion,
		Entries: make(map[string]*domain.CacheEntry),
	}, nil
}

// Save replaces the document atomically and removes a stale copy in the other format.
func (s *CacheStore) Save(doc *domain.CacheDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return cacheError(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), s.dir)
	}

	path, stale := s.plainPath(), s.compressedPath()
	if s.compress {
		data = s.encoder.EncodeAll(data, nil)
		path, stale = stale, path
	}

	if err := writeAtomic(path, data); err != nil {
		return cacheError(err, path)
	}
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cacheError(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), stale)
	}
	return nil
}

// Clear removes the document in both formats.
func (s *CacheStore) Clear() error {
	for _, path := range []string{s.plainPath(), s.compressedPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cacheError(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), path)
		}
	}
	return nil
}

func cacheError(err error, path string) error {
	return errors.Join(domain.ErrCache, zerr.With(err, "path", path))
}

// writeAtomic writes data to a temporary file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}
