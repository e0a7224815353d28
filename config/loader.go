package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".hhfacts.yaml"

type Loader interface {
	// Load merges defaults, the config file and HHFACTS_* variables, in
	// increasing priority.
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix("HHFACTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only sees keys viper already knows, and Unmarshal
	// does not ask for them individually.
	for _, key := range []string{
		"parser.php5_compat",
		"parser.hhvm_compat",
		"index.workers",
		"index.cache_size",
		"store.path",
		"log.verbosity",
		"log.file",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("parser.php5_compat", defaults.Parser.PHP5Compat)
	v.SetDefault("parser.hhvm_compat", defaults.Parser.HHVMCompat)

	v.SetDefault("index.include", defaults.Index.Include)
	v.SetDefault("index.exclude", defaults.Index.Exclude)
	v.SetDefault("index.workers", defaults.Index.Workers)
	v.SetDefault("index.cache_size", defaults.Index.CacheSize)

	v.SetDefault("store.path", defaults.Store.Path)

	v.SetDefault("log.verbosity", defaults.Log.Verbosity)
	v.SetDefault("log.file", defaults.Log.File)
}
