// Package settings resolves the runtime settings of the CLI from flags,
// MONOENV_* environment variables and defaults, in that order of priority.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvConfig   = "MONOENV_CONFIG"
	EnvRoot     = "MONOENV_ROOT"
	EnvLogLevel = "MONOENV_LOG_LEVEL"
	EnvDebug    = "MONOENV_DEBUG"
)

// Settings holds the resolved runtime settings
type Settings struct {
	// ConfigPath is the configuration document; empty means discover it in RootDir
	ConfigPath string
	// RootDir anchors relative path hints and auto-detection
	RootDir  string
	LogLevel string
	Debug    bool
}

// Source records where a setting came from
type Source string

const (
	SourceDefault Source = "default"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Overrides carries values set explicitly on the command line; nil means unset
type Overrides struct {
	ConfigPath *string
	RootDir    *string
	LogLevel   *string
	Debug      *bool
}

// Resolved pairs settings with the source of each field
type Resolved struct {
	Settings
	Sources map[string]Source
}

// Defaults returns the settings used when nothing else is configured
func Defaults() Settings {
	return Settings{RootDir: ".", LogLevel: "warn"}
}

// Load resolves settings with flag > environment > default priority. lookup
// is usually os.LookupEnv.
func Load(flags Overrides, lookup func(string) (string, bool)) (*Resolved, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	s := Defaults()
	sources := map[string]Source{
		"config": SourceDefault, "root": SourceDefault, "log_level": SourceDefault, "debug": SourceDefault,
	}

	apply := func(field string, envKey string, flag *string, target *string) {
		if v, ok := lookup(envKey); ok && v != "" {
			*target = v
			sources[field] = SourceEnv
		}
		if flag != nil {
			*target = *flag
			sources[field] = SourceFlag
		}
	}
	apply("config", EnvConfig, flags.ConfigPath, &s.ConfigPath)
	apply("root", EnvRoot, flags.RootDir, &s.RootDir)
	apply("log_level", EnvLogLevel, flags.LogLevel, &s.LogLevel)

	if v, ok := lookup(EnvDebug); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		s.Debug = b
		sources["debug"] = SourceEnv
	}
	if flags.Debug != nil {
		s.Debug = *flags.Debug
		sources["debug"] = SourceFlag
	}

	if err := ValidateLogLevel(s.LogLevel); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(s.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory %q: %w", s.RootDir, err)
	}
	s.RootDir = root

	// An explicit config path is relative to the working directory, not the root
	if s.ConfigPath != "" {
		configPath, err := filepath.Abs(s.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", s.ConfigPath, err)
		}
		s.ConfigPath = configPath
	}

	return &Resolved{Settings: s, Sources: sources}, nil
}

// ValidateLogLevel validates log level value
func ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "warning", "error", "trace"}

	normalizedLevel := strings.ToLower(strings.TrimSpace(level))
	for _, valid := range validLevels {
		if normalizedLevel == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s (valid levels: %s)", level, strings.Join(validLevels, ", "))
}
