package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HistoryStore = (*HistoryStore)(nil)

const historyVersion = 1

type historyDocument struct {
	Version int                         `json:"version"`
	Records []domain.VerificationRecord `json:"records"`
}

// HistoryStore implements ports.HistoryStore as a bounded JSON log.
type HistoryStore struct {
	path string
}

// NewHistoryStore creates a store for the document at path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load returns the records, oldest first.
func (s *HistoryStore) Load() ([]domain.VerificationRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, cacheError(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), s.path)
	}

	var doc historyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, cacheError(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), s.path)
	}
	if doc.Version != historyVersion {
		return nil, cacheError(zerr.With(domain.ErrUnsupportedVersion, "version", doc.Version), s.path)
	}
	return doc.Records, nil
}

// Append adds record and drops the oldest records beyond limit. A corrupt log is replaced.
func (s *HistoryStore) Append(record domain.VerificationRecord, limit int) error {
	records, err := s.Load()
	if err != nil && !errors.Is(err, domain.ErrCache) {
		return err
	}

	records = append(records, record)
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	data, err := json.MarshalIndent(historyDocument{Version: historyVersion, Records: records}, "", "  ")
	if err != nil {
		return cacheError(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), s.path)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return cacheError(err, s.path)
	}
	return nil
}
