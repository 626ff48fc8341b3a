package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables overriding retest.yaml.
const (
	EnvBaseRef     = "RETEST_BASE_REF"
	EnvMaxWorkers  = "RETEST_MAX_WORKERS"
	EnvCacheDir    = "RETEST_CACHE_DIR"
	EnvTimeout     = "RETEST_TIMEOUT"
	EnvSampleRate  = "RETEST_SAMPLE_RATE"
	EnvSeed        = "RETEST_SEED"
	EnvMetricsFile = "RETEST_METRICS_FILE"
)

// loadEnvFile loads .env from the project root without overriding the process environment.
func loadEnvFile(root string) error {
	path := filepath.Join(root, domain.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileFailed.Error()), "path", path)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *domain.Config, lookup lookupFunc) error {
	if v, ok := lookup(EnvBaseRef); ok && v != "" {
		cfg.Git.BaseRef = v
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		cfg.Cache.Dir = v
	}
	if v, ok := lookup(EnvMetricsFile); ok && v != "" {
		cfg.Metrics.Textfile = v
	}
	if v, ok := lookup(EnvMaxWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvMaxWorkers, err)
		}
		cfg.Runner.MaxWorkers = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(EnvTimeout, err)
		}
		cfg.Runner.Timeout = d
	}
	if v, ok := lookup(EnvSampleRate); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(EnvSampleRate, err)
		}
		cfg.Verify.SampleRate = f
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, err)
		}
		cfg.Verify.Seed = n
	}
	return nil
}

func envError(name string, err error) error {
	return zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "env", name)
}
