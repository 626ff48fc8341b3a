package domain

import "go.trai.ch/zerr"

// Error kinds. Every error surfaced by the engine is joined with exactly one of these so
// callers can branch with errors.Is without knowing the concrete failure.
var (
	// ErrConfiguration is the kind of errors caused by an invalid setup, such as an
	// unresolvable base ref or a missing repository.
	ErrConfiguration = zerr.New("configuration error")

	// ErrExecution is the kind of errors raised while spawning or supervising test processes.
	ErrExecution = zerr.New("execution error")

	// ErrCache is the kind of errors caused by corrupt or unreadable persisted state.
	ErrCache = zerr.New("cache error")

	// ErrAnalysis is the kind of errors raised when a source file cannot be analyzed.
	ErrAnalysis = zerr.New("analysis error")
)

var (
	// ErrNotARepository is returned when the project root is not inside a git work tree.
	ErrNotARepository = zerr.New("not a git repository")

	// ErrRefNotFound is returned when the base ref cannot be resolved to a commit.
	ErrRefNotFound = zerr.New("could not resolve base ref")

	// ErrDiffFailed is returned when the version control diff cannot be computed or parsed.
	ErrDiffFailed = zerr.New("failed to compute diff")

	// ErrGitUnavailable is returned when the git binary cannot be found.
	ErrGitUnavailable = zerr.New("git executable not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrConfigNotFound is returned when no retest.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find retest.yaml")

	// ErrEnvFileFailed is returned when a present .env file cannot be parsed.
	ErrEnvFileFailed = zerr.New("failed to load .env file")

	// ErrDiscoveryFailed is returned when walking the project tree fails.
	ErrDiscoveryFailed = zerr.New("failed to discover files")

	// ErrInvalidPattern is returned when a glob pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrParseFailed is returned when a source file cannot be parsed.
	ErrParseFailed = zerr.New("failed to parse source file")

	// ErrUnresolvedImport is returned when a relative import does not resolve to a file.
	ErrUnresolvedImport = zerr.New("unresolved relative import")

	// ErrGraphNotBuilt is returned when impact analysis runs before the graph was built.
	ErrGraphNotBuilt = zerr.New("dependency graph has not been built")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrStoreCreateFailed is returned when the state directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create state directory")

	// ErrStoreReadFailed is returned when a persisted document cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read persisted state")

	// ErrStoreUnmarshalFailed is returned when a persisted document cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to decode persisted state")

	// ErrStoreMarshalFailed is returned when a document cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to encode persisted state")

	// ErrStoreWriteFailed is returned when a document cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write persisted state")

	// ErrUnsupportedVersion is returned when a persisted document has an unknown schema version.
	ErrUnsupportedVersion = zerr.New("unsupported persisted state version")

	// ErrSpawnFailed is returned when the test command cannot be started.
	ErrSpawnFailed = zerr.New("failed to start test command")

	// ErrTimeout is returned when a test invocation exceeds its hard timeout.
	ErrTimeout = zerr.New("test invocation timed out")

	// ErrEmptyCommand is returned when the runner command template is empty.
	ErrEmptyCommand = zerr.New("runner command is empty")

	// ErrTestsFailed is returned when at least one test result has status failed.
	ErrTestsFailed = zerr.New("tests failed")

	// ErrVerificationFailed is returned when a requested verification is not accurate.
	ErrVerificationFailed = zerr.New("test selection verification failed")

	// ErrMetricsWriteFailed is returned when the metrics text file cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")
)
