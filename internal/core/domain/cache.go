package domain

import "time"

// CacheDocumentVersion is the schema version of the persisted cache document.
const CacheDocumentVersion = 1

// CacheEntry is a stored test result together with the fingerprints it was produced from.
type CacheEntry struct {
	TestFile     string            `json:"testFile"`
	SourceFiles  []string          `json:"sourceFiles"`
	SourceHashes map[string]string `json:"sourceHashes"`
	TestHash     string            `json:"testHash"`
	Dependencies []string          `json:"dependencies"`
	Result       TestResult        `json:"result"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastUsed     time.Time         `json:"lastUsed"`
	UseCount     int               `json:"useCount"`
}

// CacheDocument is the single persisted document of a result cache.
type CacheDocument struct {
	Version int                    `json:"version"`
	SavedAt time.Time              `json:"savedAt"`
	Entries map[string]*CacheEntry `json:"entries"`
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Entries       int     `json:"entries"`
	Hits          int     `json:"hits"`
	Misses        int     `json:"misses"`
	Invalidations int     `json:"invalidations"`
	Evictions     int     `json:"evictions"`
	SizeBytes     int64   `json:"sizeBytes"`
	HitRate       float64 `json:"hitRate"`
}

// InvalidationReason names the validity clause an entry failed.
type InvalidationReason string

const (
	// ReasonMissing means no entry exists for the key.
	ReasonMissing InvalidationReason = "missing"
	// ReasonExpired means the entry is older than the maximum age.
	ReasonExpired InvalidationReason = "expired"
	// ReasonTestChanged means the test file hash differs.
	ReasonTestChanged InvalidationReason = "test-changed"
	// ReasonSourceChanged means a covered source file hash differs.
	ReasonSourceChanged InvalidationReason = "source-changed"
	// ReasonDependenciesChanged means the dependency set differs.
	ReasonDependenciesChanged InvalidationReason = "dependencies-changed"
	// ReasonCoverageChanged means the covered source set of the test changed.
	ReasonCoverageChanged InvalidationReason = "coverage-changed"
)
