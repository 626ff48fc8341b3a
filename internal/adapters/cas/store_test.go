package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/cas"
	"go.trai.ch/retest/internal/core/domain"
)

func sampleDocument() *domain.CacheDocument {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.CacheDocument{
		Version: domain.CacheDocumentVersion,
		SavedAt: now,
		Entries: map[string]*domain.CacheEntry{
			"0123456789abcdef": {
				TestFile:     "src/math.test.ts",
				SourceFiles:  []string{"src/math.ts"},
				SourceHashes: map[string]string{"src/math.ts": "aaaaaaaaaaaaaaaa"},
				TestHash:     "bbbbbbbbbbbbbbbb",
				Dependencies: []string{"src/math.ts"},
				Result: domain.TestResult{
					TestFile:  "src/math.test.ts",
					Status:    domain.StatusPassed,
					Duration:  120 * time.Millisecond,
					Timestamp: now,
				},
				CreatedAt: now,
				LastUsed:  now,
				UseCount:  2,
			},
		},
	}
}

func TestCacheStore_SaveLoad(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		store, err := cas.NewCacheStore(dir, compress)
		require.NoError(t, err)

		doc := sampleDocument()
		require.NoError(t, store.Save(doc))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, doc, got)

		name := domain.CacheFileName
		if compress {
			name += domain.CompressedSuffix
		}
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestCacheStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, err := cas.NewCacheStore(filepath.Join(t.TempDir(), "nested"), false)
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.CacheDocumentVersion, doc.Version)
	assert.Empty(t, doc.Entries)
}

func TestCacheStore_ToggleCompression(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain, err := cas.NewCacheStore(dir, false)
	require.NoError(t, err)
	require.NoError(t, plain.Save(sampleDocument()))

	compressed, err := cas.NewCacheStore(dir, true)
	require.NoError(t, err)

	doc, err := compressed.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Entries, 1)

	require.NoError(t, compressed.Save(doc))
	assert.NoFileExists(t, filepath.Join(dir, domain.CacheFileName))
	assert.FileExists(t, filepath.Join(dir, domain.CacheFileName+domain.CompressedSuffix))
}

func TestCacheStore_Corrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"truncated json", domain.CacheFileName, `{"version":1,"entries":{`},
		{"unknown version", domain.CacheFileName, `{"version":99,"entries":{}}`},
		{"not zstd", domain.CacheFileName + domain.CompressedSuffix, "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o600))

			store, err := cas.NewCacheStore(dir, true)
			require.NoError(t, err)

			_, err = store.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCache)
		})
	}
}

func TestCacheStore_Clear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := cas.NewCacheStore(dir, false)
	require.NoError(t, err)
	require.NoError(t, store.Save(sampleDocument()))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
}

func TestHistoryStore_AppendBounded(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".retest", domain.HistoryFileName)
	store := cas.NewHistoryStore(path)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	for i := range 5 {
		require.NoError(t, store.Append(domain.VerificationRecord{
			ID:       string(rune('a' + i)),
			Accuracy: float64(i) / 4,
		}, 3))
	}

	records, err = store.Load()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "e", records[2].ID)
}

func TestHistoryStore_CorruptIsReplaced(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.HistoryFileName)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	store := cas.NewHistoryStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, domain.ErrCache)

	require.NoError(t, store.Append(domain.VerificationRecord{ID: "fresh"}, 10))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh", records[0].ID)
}
