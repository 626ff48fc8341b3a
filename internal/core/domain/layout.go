package domain

import "path/filepath"

const (
	// StateDirName is the name of the directory holding all persisted state.
	StateDirName = ".retest"

	// CacheDirName is the name of the result cache directory.
	CacheDirName = "cache"

	// CacheFileName is the name of the result cache document.
	CacheFileName = "results.json"

	// CompressedSuffix is appended to documents written with zstd compression.
	CompressedSuffix = ".zst"

	// HistoryFileName is the name of the verification history document.
	HistoryFileName = "history.json"

	// MetricsFileName is the default name of the Prometheus text file.
	MetricsFileName = "metrics.prom"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "retest.yaml"

	// EnvFileName is the name of the optional dotenv file next to the config.
	EnvFileName = ".env"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default directory for the result cache.
// It joins .retest and cache.
func DefaultCachePath() string {
	return filepath.Join(StateDirName, CacheDirName)
}

// DefaultHistoryPath returns the default path for the verification history.
func DefaultHistoryPath() string {
	return filepath.Join(StateDirName, HistoryFileName)
}
