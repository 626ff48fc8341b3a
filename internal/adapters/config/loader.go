// Package config provides the configuration loader for retest.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads retest.yaml from cwd or the nearest parent directory, applies defaults,
// .env and RETEST_* environment overrides, and validates the result.
// Without a retest.yaml the defaults are used with cwd as the project root.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath := findConfiguration(cwd)

	var file Retestfile
	root := filepath.Clean(cwd)
	if configPath != "" {
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, errors.Join(domain.ErrConfiguration, zerr.With(err, "path", configPath))
		}
		root = resolveRoot(configPath, file.Root)
	} else {
		l.Logger.Debug("no " + domain.ConfigFileName + " found, using defaults")
	}

	cfg := domain.DefaultConfig(root)
	apply(&cfg, &file)

	if err := loadEnvFile(root); err != nil {
		return nil, errors.Join(domain.ErrConfiguration, err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, errors.Join(domain.ErrConfiguration, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Join(domain.ErrConfiguration, err)
	}
	return &cfg, nil
}

// DiscoverRoot walks up from cwd to find the directory containing retest.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath := findConfiguration(cwd)
	if configPath == "" {
		return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
	}
	var file Retestfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return "", err
	}
	return resolveRoot(configPath, file.Root), nil
}

// findConfiguration returns the path of the nearest retest.yaml, or "" when there is none.
func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return ""
}

// apply overlays the keys set in file onto cfg.
func apply(cfg *domain.Config, file *Retestfile) {
	overlayPatterns(&cfg.Tests, file.Tests)
	overlayPatterns(&cfg.Sources, file.Sources)

	if len(file.Resolve.Extensions) > 0 {
		cfg.Resolve.Extensions = slices.Clone(file.Resolve.Extensions)
	}
	for prefix, target := range file.Resolve.Aliases {
		cfg.Resolve.Aliases[prefix] = target
	}
	if file.Resolve.BaseURL != "" {
		cfg.Resolve.BaseURL = filepath.ToSlash(filepath.Clean(file.Resolve.BaseURL))
	}

	r := file.Runner
	if len(r.Command) > 0 {
		cfg.Runner.Command = slices.Clone(r.Command)
	}
	setIf(&cfg.Runner.Parallel, r.Parallel)
	setIf(&cfg.Runner.MaxWorkers, r.MaxWorkers)
	setIf(&cfg.Runner.Timeout, r.Timeout)
	setIf(&cfg.Runner.DefaultDuration, r.DefaultDuration)
	keys := make([]string, 0, len(r.Environment))
	for k := range r.Environment {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		cfg.Runner.Env = append(cfg.Runner.Env, k+"="+r.Environment[k])
	}

	c := file.Cache
	if c.Dir != "" {
		cfg.Cache.Dir = c.Dir
	}
	setIf(&cfg.Cache.MaxAge, c.MaxAge)
	setIf(&cfg.Cache.MaxSize, c.MaxSize)
	setIf(&cfg.Cache.Compress, c.Compress)
	setIf(&cfg.Cache.CleanupInterval, c.CleanupInterval)

	v := file.Verify
	setIf(&cfg.Verify.SampleRate, v.SampleRate)
	setIf(&cfg.Verify.MinPerCategory, v.MinPerCategory)
	setIf(&cfg.Verify.Threshold, v.Threshold)
	setIf(&cfg.Verify.HistorySize, v.HistorySize)
	setIf(&cfg.Verify.Seed, v.Seed)
	if v.HistoryPath != "" {
		cfg.Verify.HistoryPath = v.HistoryPath
	}

	if file.Git.BaseRef != "" {
		cfg.Git.BaseRef = file.Git.BaseRef
	}
	setIf(&cfg.Git.IncludeWorkingTree, file.Git.IncludeWorkingTree)

	if file.Metrics.Textfile != "" {
		cfg.Metrics.Textfile = file.Metrics.Textfile
	}
}

func overlayPatterns(dst *domain.Patterns, dto PatternsDTO) {
	if len(dto.Include) > 0 {
		dst.Include = slices.Clone(dto.Include)
	}
	if len(dto.Exclude) > 0 {
		dst.Exclude = slices.Clone(dto.Exclude)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
