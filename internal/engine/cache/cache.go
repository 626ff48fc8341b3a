// Package cache implements the hash-keyed result cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

// Lookup is the outcome of a validity check.
type Lookup struct {
	// Result is the cached result. Only set on a hit.
	Result domain.TestResult
	// Hit reports whether the entry was valid.
	Hit bool
	// Reason names the failed validity clause on a miss.
	Reason domain.InvalidationReason
}

type counters struct {
	hits          int
	misses        int
	invalidations int
	evictions     int
}

// Cache stores test results keyed by the test file and its covered sources.
//
// An entry is valid while it is not expired, the test file hash is unchanged, every source
// hash is unchanged and the dependency set is unchanged. An invalid entry is deleted in the
// same critical section that judged it, so it is never read afterwards.
type Cache struct {
	store   ports.CacheStore
	hasher  ports.FileHasher
	metrics ports.Metrics
	logger  ports.Logger
	maxAge  time.Duration
	maxSize int64

	mu      sync.Mutex
	entries map[string]*domain.CacheEntry
	byTest  map[string]string
	stats   counters

	sweeping atomic.Bool
}

// New creates a Cache and loads the persisted document. An unreadable document is logged
// and the cache starts cold.
func New(
	store ports.CacheStore,
	hasher ports.FileHasher,
	metrics ports.Metrics,
	logger ports.Logger,
	cfg domain.CacheConfig,
) *Cache {
	c := &Cache{
		store:   store,
		hasher:  hasher,
		metrics: metrics,
		logger:  logger,
		maxAge:  cfg.MaxAge,
		maxSize: cfg.MaxSize,
		entries: make(map[string]*domain.CacheEntry),
		byTest:  make(map[string]string),
	}

	doc, err := store.Load()
	if err != nil {
		logger.Warn(fmt.Sprintf("starting with a cold cache: %v", err))
		return c
	}
	for key, e := range doc.Entries {
		if e == nil || e.TestFile == "" {
			continue
		}
		if prev, ok := c.byTest[e.TestFile]; ok && c.entries[prev].LastUsed.After(e.LastUsed) {
			continue
		}
		c.entries[key] = e
		c.byTest[e.TestFile] = key
	}
	// Drop entries shadowed by a newer one for the same test.
	for key, e := range c.entries {
		if c.byTest[e.TestFile] != key {
			delete(c.entries, key)
		}
	}
	return c
}

// Key returns the cache key of a test and its covered sources.
func Key(test string, sources []string) string {
	sorted := slices.Clone(sources)
	slices.Sort(sorted)

	h := xxhash.New()
	_, _ = h.WriteString(test)
	_, _ = h.Write([]byte{0})
	for _, s := range sorted {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Check reports whether a valid entry exists for the test with the given coverage.
// Clauses are checked cheapest first. A failing entry is deleted.
func (c *Cache) Check(test string, cov domain.TestCoverage) Lookup {
	key := Key(test, cov.Sources)

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.byTest[test]; ok && prev != key {
		c.remove(prev)
		c.stats.invalidations++
		return c.miss(domain.ReasonCoverageChanged)
	}

	entry, ok := c.entries[key]
	if !ok {
		return c.miss(domain.ReasonMissing)
	}

	if reason, valid := c.validate(entry, cov); !valid {
		c.remove(key)
		c.stats.invalidations++
		return c.miss(reason)
	}

	entry.LastUsed = time.Now()
	entry.UseCount++
	c.stats.hits++
	c.metrics.CacheHit()
	return Lookup{Result: entry.Result, Hit: true}
}

func (c *Cache) validate(entry *domain.CacheEntry, cov domain.TestCoverage) (domain.InvalidationReason, bool) {
	if c.expired(entry, time.Now()) {
		return domain.ReasonExpired, false
	}

	if hash, err := c.hasher.Hash(entry.TestFile); err != nil || hash != entry.TestHash {
		return domain.ReasonTestChanged, false
	}

	for _, src := range entry.SourceFiles {
		if hash, err := c.hasher.Hash(src); err != nil || hash != entry.SourceHashes[src] {
			return domain.ReasonSourceChanged, false
		}
	}

	if !sameSet(entry.Dependencies, cov.Dependencies) {
		return domain.ReasonDependenciesChanged, false
	}
	return "", true
}

func (c *Cache) expired(entry *domain.CacheEntry, now time.Time) bool {
	return c.maxAge > 0 && now.Sub(entry.CreatedAt) > c.maxAge
}

func (c *Cache) miss(reason domain.InvalidationReason) Lookup {
	c.stats.misses++
	c.metrics.CacheMiss(reason)
	return Lookup{Reason: reason}
}

func (c *Cache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		if c.byTest[e.TestFile] == key {
			delete(c.byTest, e.TestFile)
		}
		delete(c.entries, key)
	}
}

// Put stores a fresh result together with the current hashes of the test and every
// covered source. Any older entry for the same test is replaced. Entries are evicted by
// least recent use while the estimated size exceeds the budget.
func (c *Cache) Put(result domain.TestResult, cov domain.TestCoverage) error {
	testHash, err := c.hasher.Hash(result.TestFile)
	if err != nil {
		return errors.Join(domain.ErrCache, err)
	}
	sourceHashes := make(map[string]string, len(cov.Sources))
	for _, src := range cov.Sources {
		hash, err := c.hasher.Hash(src)
		if err != nil {
			return errors.Join(domain.ErrCache, err)
		}
		sourceHashes[src] = hash
	}

	now := time.Now()
	key := Key(result.TestFile, cov.Sources)
	entry := &domain.CacheEntry{
		TestFile:     result.TestFile,
		SourceFiles:  slices.Sorted(maps.Keys(sourceHashes)),
		SourceHashes: sourceHashes,
		TestHash:     testHash,
		Dependencies: slices.Clone(cov.Dependencies),
		Result:       result,
		CreatedAt:    now,
		LastUsed:     now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.byTest[result.TestFile]; ok {
		c.remove(prev)
	}
	c.entries[key] = entry
	c.byTest[result.TestFile] = key
	c.evict()
	return nil
}

// evict removes least recently used entries until the estimated size fits maxSize.
func (c *Cache) evict() {
	if c.maxSize <= 0 {
		return
	}
	sizes := make(map[string]int64, len(c.entries))
	var total int64
	for key, e := range c.entries {
		sizes[key] = entrySize(key, e)
		total += sizes[key]
	}
	if total <= c.maxSize {
		return
	}

	keys := slices.SortedFunc(maps.Keys(c.entries), func(a, b string) int {
		if d := c.entries[a].LastUsed.Compare(c.entries[b].LastUsed); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	evicted := 0
	for _, key := range keys {
		if total <= c.maxSize {
			break
		}
		total -= sizes[key]
		c.remove(key)
		evicted++
	}
	c.stats.evictions += evicted
	c.metrics.CacheEvicted(evicted)
	c.logger.Debug(fmt.Sprintf("evicted %d cache entries over the %d byte budget", evicted, c.maxSize))
}

// InvalidateAffectedTests removes every entry whose test, sources or dependencies
// intersect files. It catches renames and deletions the per-entry check cannot observe.
func (c *Cache) InvalidateAffectedTests(files []string) int {
	if len(files) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	touches := func(paths []string) bool {
		for _, p := range paths {
			if _, ok := set[p]; ok {
				return true
			}
		}
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		_, testTouched := set[e.TestFile]
		if testTouched || touches(e.SourceFiles) || touches(e.Dependencies) {
			c.remove(key)
			removed++
		}
	}
	c.stats.invalidations += removed
	return removed
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			c.remove(key)
			removed++
		}
	}
	c.stats.invalidations += removed
	return removed
}

// StartSweeper sweeps expired entries every interval until ctx is done.
// Calling it while a sweeper is running has no effect.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.Sweep(); n > 0 {
					c.logger.Debug(fmt.Sprintf("swept %d expired cache entries", n))
				}
			}
		}
	}()
}

// Peek returns the stored result for a test without checking validity.
func (c *Cache) Peek(test string) (domain.TestResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.byTest[test]
	if !ok {
		return domain.TestResult{}, false
	}
	return c.entries[key].Result, true
}

// Duration returns the last known duration of a test.
func (c *Cache) Duration(test string) (time.Duration, bool) {
	res, ok := c.Peek(test)
	if !ok {
		return 0, false
	}
	return res.Duration, true
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var size int64
	for key, e := range c.entries {
		size += entrySize(key, e)
	}
	stats := domain.CacheStats{
		Entries:       len(c.entries),
		Hits:          c.stats.hits,
		Misses:        c.stats.misses,
		Invalidations: c.stats.invalidations,
		Evictions:     c.stats.evictions,
		SizeBytes:     size,
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(lookups)
	}
	return stats
}

// Save persists every entry.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := &domain.CacheDocument{
		Version: domain.CacheDocumentVersion,
		SavedAt: time.Now(),
		Entries: maps.Clone(c.entries),
	}
	if err := c.store.Save(doc); err != nil {
		return errors.Join(domain.ErrCache, err)
	}
	return nil
}

// Clear removes every entry and the persisted document.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.CacheEntry)
	c.byTest = make(map[string]string)
	if err := c.store.Clear(); err != nil {
		return errors.Join(domain.ErrCache, zerr.Wrap(err, "failed to clear cache"))
	}
	return nil
}

func entrySize(key string, e *domain.CacheEntry) int64 {
	data, err := json.Marshal(e)
	if err != nil {
		return 0
	}
	// Key, quotes and separators.
	return int64(len(data) + len(key) + 4)
}

func sameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, x := range a {
		setA[x] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, x := range b {
		if _, ok := setA[x]; !ok {
			return false
		}
		setB[x] = struct{}{}
	}
	return len(setA) == len(setB)
}
