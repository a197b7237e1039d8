package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/toolloop/providers/observability/slogobs"
)

// Environment variables read by [Load].
const (
	EnvMaxSubtasks   = "TOOLLOOP_MAX_SUBTASKS"
	EnvTaggedCalling = "TOOLLOOP_TAGGED_CALLING"
	EnvModel         = "TOOLLOOP_MODEL"
	EnvLogLevel      = slogobs.EnvLogLevel
	EnvLogFormat     = slogobs.EnvLogFormat
)

// DefaultMaxSubtasks is the subtask budget of a task when nothing else is
// configured.
const DefaultMaxSubtasks = 20

// DefaultEnvFile is read by [Load] when no env file is named.
const DefaultEnvFile = ".env"

// ErrInvalid is returned for values that cannot be used.
var ErrInvalid = errors.New("toolloop: invalid configuration")

// Config holds the settings of a tool loop.
type Config struct {
	// MaxSubtasks bounds the number of subtasks a single task may create.
	MaxSubtasks int `yaml:"max_subtasks"`
	// TaggedCalling forces the function_calls grammar regardless of the
	// tools registered.
	TaggedCalling bool   `yaml:"tagged_calling"`
	Model         string `yaml:"model"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxSubtasks: DefaultMaxSubtasks,
		LogLevel:    "info",
		LogFormat:   string(slogobs.FormatText),
	}
}

// Load builds a configuration. Each layer overrides the previous one:
//  1. [Default],
//  2. the YAML file at path, when path is not empty,
//  3. the env files (DefaultEnvFile when none is named; missing files are
//     skipped),
//  4. the process environment.
//
// The result is validated before it is returned.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return cfg, fmt.Errorf("read env file %s: %w", file, err)
		}
		if err := cfg.apply(func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		}); err != nil {
			return cfg, fmt.Errorf("env file %s: %w", file, err)
		}
	}

	if err := cfg.apply(os.LookupEnv); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxSubtasks); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvMaxSubtasks, v)
		}
		c.MaxSubtasks = n
	}
	if v, ok := lookup(EnvTaggedCalling); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvTaggedCalling, v)
		}
		c.TaggedCalling = b
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.MaxSubtasks < 1 {
		return fmt.Errorf("%w: max_subtasks must be >= 1, got %d", ErrInvalid, c.MaxSubtasks)
	}
	if _, err := slogobs.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}

// Observer builds a slog observer with the configured level and format.
// Options given here take precedence.
func (c Config) Observer(opts ...slogobs.Option) *slogobs.Observer {
	level, _ := slogobs.ParseLogLevel(c.LogLevel)
	base := []slogobs.Option{
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(c.LogFormat)),
	}
	return slogobs.New(append(base, opts...)...)
}
