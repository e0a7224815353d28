package config

import (
	"github.com/dhamidi/hhfacts/hack/parser"
)

// Config is the hhfacts configuration, read from .hhfacts.yaml in the
// project root with HHFACTS_* environment overrides.
type Config struct {
	Parser ParserConfig `yaml:"parser" mapstructure:"parser"`
	Index  IndexConfig  `yaml:"index" mapstructure:"index"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

type ParserConfig struct {
	PHP5Compat bool `yaml:"php5_compat" mapstructure:"php5_compat"`
	HHVMCompat bool `yaml:"hhvm_compat" mapstructure:"hhvm_compat"`
}

// IndexConfig selects the files to index. Patterns match slash separated
// paths relative to the project root.
type IndexConfig struct {
	Include   []string `yaml:"include" mapstructure:"include"`
	Exclude   []string `yaml:"exclude" mapstructure:"exclude"`
	Workers   int      `yaml:"workers" mapstructure:"workers"`       // 0 means one per CPU
	CacheSize int      `yaml:"cache_size" mapstructure:"cache_size"` // facts kept in memory, by content hash
}

type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity" mapstructure:"verbosity"`
	File      string `yaml:"file" mapstructure:"file"`
}

// Default enables both compatibility modes, so <?php files may use Hack
// attributes and enums.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			PHP5Compat: true,
			HHVMCompat: true,
		},
		Index: IndexConfig{
			Include: []string{
				"**/*.php",
				"**/*.hack",
				"**/*.hh",
				"**/*.hhi",
			},
			Exclude: []string{
				"**/vendor/**",
				"**/.git/**",
				"**/node_modules/**",
			},
			CacheSize: 10000,
		},
		Store: StoreConfig{
			Path: ".hhfacts/facts.db",
		},
	}
}

// Env is the parser environment the configuration selects.
func (c *Config) Env() parser.Env {
	return parser.Env{
		PHP5CompatMode: c.Parser.PHP5Compat,
		HHVMCompatMode: c.Parser.HHVMCompat,
	}
}
