package parser

import "strings"

// Env carries the compatibility switches of a parse. Filename only labels
// diagnostics and never influences parsing.
type Env struct {
	// PHP5CompatMode accepts older dialect syntax: keywords in <?php
	// files match case-insensitively and `var` property declarations are
	// allowed.
	PHP5CompatMode bool
	// HHVMCompatMode accepts Hack-only syntax (attributes, enum, type and
	// newtype declarations) in files opened with <?php.
	HHVMCompatMode bool
	Filename       string
}

// Options turns the environment into parser options.
func (e Env) Options() []Option {
	opts := []Option{WithFile(e.Filename)}
	if e.PHP5CompatMode {
		opts = append(opts, WithPHP5Compat())
	}
	if e.HHVMCompatMode {
		opts = append(opts, WithHHVMCompat())
	}
	return opts
}

// Mode names the switches that change how a file parses, for callers
// that must tell whether stored results are still current.
func (e Env) Mode() string {
	var modes []string
	if e.PHP5CompatMode {
		modes = append(modes, "php5")
	}
	if e.HHVMCompatMode {
		modes = append(modes, "hhvm")
	}
	if len(modes) == 0 {
		return "none"
	}
	return strings.Join(modes, "+")
}

type settings struct {
	env Env
}

type Option func(*settings)

func WithFile(file string) Option {
	return func(s *settings) {
		s.env.Filename = file
	}
}

func WithPHP5Compat() Option {
	return func(s *settings) {
		s.env.PHP5CompatMode = true
	}
}

func WithHHVMCompat() Option {
	return func(s *settings) {
		s.env.HHVMCompatMode = true
	}
}
