package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

var (
	ErrInvalidPattern   = errors.New("invalid glob pattern")
	ErrNoIncludes       = errors.New("no include patterns")
	ErrInvalidWorkers   = errors.New("invalid worker count")
	ErrInvalidCacheSize = errors.New("invalid cache size")
	ErrEmptyStorePath   = errors.New("empty store path")
)

// Validate reports every problem with cfg at once.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Index.Include) == 0 {
		errs = append(errs, ErrNoIncludes)
	}
	for _, patterns := range [][]string{cfg.Index.Include, cfg.Index.Exclude} {
		for _, p := range patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				errs = append(errs, fmt.Errorf("%w %q: %v", ErrInvalidPattern, p, err))
			}
		}
	}
	if cfg.Index.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Index.Workers))
	}
	if cfg.Index.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidCacheSize, cfg.Index.CacheSize))
	}
	if cfg.Store.Path == "" {
		errs = append(errs, ErrEmptyStorePath)
	}

	return errors.Join(errs...)
}
