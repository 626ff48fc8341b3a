package ports

import "go.trai.ch/retest/internal/core/domain"

// CacheStore persists the result cache as a single document.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Load reads the document. A missing document returns an empty one and no error.
	Load() (*domain.CacheDocument, error)
	// Save replaces the document atomically.
	Save(doc *domain.CacheDocument) error
	// Clear removes the persisted document.
	Clear() error
}

// HistoryStore persists the bounded verification history.
type HistoryStore interface {
	// Load returns the records, oldest first. A missing document returns no records.
	Load() ([]domain.VerificationRecord, error)
	// Append adds a record, keeping only the most recent limit records.
	Append(record domain.VerificationRecord, limit int) error
}
