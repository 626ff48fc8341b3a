package config

import (
	"github.com/go-playground/validator/v10"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/zerr"
)

var validate = newValidator()

type fieldCheck struct {
	field string
	value any
	tag   string
}

func newValidator() func(cfg *domain.Config) error {
	v := validator.New()
	return func(cfg *domain.Config) error {
		checks := []fieldCheck{
			{"root", cfg.Root, "required,dir"},
			{"tests.include", cfg.Tests.Include, "min=1,dive,required"},
			{"sources.include", cfg.Sources.Include, "min=1,dive,required"},
			{"resolve.extensions", cfg.Resolve.Extensions, "dive,startswith=."},
			{"runner.command", cfg.Runner.Command, "min=1,dive,required"},
			{"runner.maxWorkers", cfg.Runner.MaxWorkers, "min=1,max=256"},
			{"runner.timeout", cfg.Runner.Timeout, "gt=0"},
			{"runner.defaultDuration", cfg.Runner.DefaultDuration, "gte=0"},
			{"cache.dir", cfg.Cache.Dir, "required"},
			{"cache.maxAge", cfg.Cache.MaxAge, "gt=0"},
			{"cache.maxSize", cfg.Cache.MaxSize, "gt=0"},
			{"cache.cleanupInterval", cfg.Cache.CleanupInterval, "gte=0"},
			{"verify.sampleRate", cfg.Verify.SampleRate, "gt=0,lte=1"},
			{"verify.minPerCategory", cfg.Verify.MinPerCategory, "min=0"},
			{"verify.threshold", cfg.Verify.Threshold, "gte=0,lte=1"},
			{"verify.historySize", cfg.Verify.HistorySize, "min=1"},
			{"git.baseRef", cfg.Git.BaseRef, "required"},
		}
		for _, c := range checks {
			if err := v.Var(c.value, c.tag); err != nil {
				err = zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "field", c.field)
				return zerr.With(err, "rule", c.tag)
			}
		}
		if err := cfg.Tests.Validate(); err != nil {
			return err
		}
		return cfg.Sources.Validate()
	}
}
