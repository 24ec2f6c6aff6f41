package di

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a root container.
// It can be loaded from a YAML file or from the environment.
//
//	unregistered_resolution: generics_only   # attempt_resolve | fail | generics_only
//	named_resolution_failure: attempt_unnamed # fail | attempt_unnamed
//	messenger: true
//	log_level: debug
type Config struct {
	UnregisteredResolution string `yaml:"unregistered_resolution"`
	NamedResolutionFailure string `yaml:"named_resolution_failure"`
	Messenger              bool   `yaml:"messenger"`
	LogLevel               string `yaml:"log_level"`
}

// Environment variables read by ConfigFromEnv.
const (
	EnvUnregisteredResolution = "DI_UNREGISTERED_RESOLUTION"
	EnvNamedResolutionFailure = "DI_NAMED_RESOLUTION_FAILURE"
	EnvMessenger              = "DI_MESSENGER"
	EnvLogLevel               = "DI_LOG_LEVEL"
)

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read the configuration `%s`: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse the configuration `%s`: %w", path, err)
	}

	return cfg, nil
}

// ConfigFromEnv loads the given .env files, if they exist,
// and reads the configuration from the environment variables.
// Variables already set in the environment are not overridden by the files.
func ConfigFromEnv(envFiles ...string) (Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("could not load `%s`: %w", file, err)
		}
	}

	cfg := Config{
		UnregisteredResolution: os.Getenv(EnvUnregisteredResolution),
		NamedResolutionFailure: os.Getenv(EnvNamedResolutionFailure),
		LogLevel:               os.Getenv(EnvLogLevel),
	}

	if v := os.Getenv(EnvMessenger); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("could not parse %s: %w", EnvMessenger, err)
		}
		cfg.Messenger = b
	}

	return cfg, nil
}

// ResolveOptions returns the default resolution policy of the configuration.
func (cfg Config) ResolveOptions() (ResolveOptions, error) {
	unregistered, err := ParseUnregisteredResolutionAction(cfg.UnregisteredResolution)
	if err != nil {
		return ResolveOptions{}, err
	}

	named, err := ParseNamedResolutionFailureAction(cfg.NamedResolutionFailure)
	if err != nil {
		return ResolveOptions{}, err
	}

	return ResolveOptions{
		UnregisteredResolution: unregistered,
		NamedResolutionFailure: named,
	}, nil
}

// Options returns the container options matching the configuration.
// A logger is only created if LogLevel is set.
func (cfg Config) Options() ([]Option, error) {
	resolveOptions, err := cfg.ResolveOptions()
	if err != nil {
		return nil, err
	}

	opts := []Option{WithDefaultResolveOptions(resolveOptions)}

	if cfg.LogLevel != "" {
		logger, err := NewLogger(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("could not create the logger: %w", err)
		}
		opts = append(opts, WithLogger(logger))
	}

	if cfg.Messenger {
		opts = append(opts, WithMessenger())
	}

	return opts, nil
}
