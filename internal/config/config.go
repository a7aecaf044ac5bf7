package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shapegen/shapegen/internal/synth"
)

// Config represents the complete configuration for shapegen
type Config struct {
	Package    string           `yaml:"package"`
	RootName   string           `yaml:"root_name"`
	Formatting FormattingConfig `yaml:"formatting"`
	Limits     LimitsConfig     `yaml:"limits"`
	Arrays     ArraysConfig     `yaml:"arrays"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// FormattingConfig controls code formatting options
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LimitsConfig bounds inference recursion
type LimitsConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// ArraysConfig controls array handling. EmptyPolicy is "error" (fail on
// arrays with no elements) or "string-list" (fall back to a list of strings).
type ArraysConfig struct {
	EmptyPolicy string `yaml:"empty_policy"`
}

// BatchConfig controls folder-mode processing
type BatchConfig struct {
	// Concurrency is the number of sample files processed in parallel;
	// zero means one worker per CPU.
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig controls structured logging for batch runs
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

const (
	EmptyPolicyError      = "error"
	EmptyPolicyStringList = "string-list"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Package:  "main",
		RootName: "RootType",
		Formatting: FormattingConfig{
			Enabled: true,
		},
		Limits: LimitsConfig{
			MaxDepth: synth.DefaultMaxDepth,
		},
		Arrays: ArraysConfig{
			EmptyPolicy: EmptyPolicyError,
		},
		Batch: BatchConfig{
			Concurrency: 0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values that have a closed set of legal spellings
func (c *Config) Validate() error {
	switch c.Arrays.EmptyPolicy {
	case EmptyPolicyError, EmptyPolicyStringList:
	default:
		return fmt.Errorf("invalid arrays.empty_policy %q: must be %q or %q",
			c.Arrays.EmptyPolicy, EmptyPolicyError, EmptyPolicyStringList)
	}
	if c.Limits.MaxDepth < 0 {
		return fmt.Errorf("invalid limits.max_depth %d: must be non-negative", c.Limits.MaxDepth)
	}
	return nil
}

// SynthOptions converts the configuration into synthesizer options
func (c *Config) SynthOptions() synth.Options {
	opts := synth.Options{MaxDepth: c.Limits.MaxDepth}
	if c.Arrays.EmptyPolicy == EmptyPolicyStringList {
		opts.EmptyArrays = synth.EmptyArrayStringList
	}
	return opts
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".shapegen.yml", ".shapegen.yaml", "shapegen.yml", "shapegen.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence. CLI values are
// applied over the file only when they differ from the built-in defaults, so
// a config file still wins when the flag was left unset.
func LoadConfigWithCLI(configPath, cliPackage, cliRootName string, cliMaxDepth int) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliPackage != "" && cliPackage != "main" {
		cfg.Package = cliPackage
	}
	if cliRootName != "" && cliRootName != "RootType" {
		cfg.RootName = cliRootName
	}
	if cliMaxDepth > 0 {
		cfg.Limits.MaxDepth = cliMaxDepth
	}

	return cfg, nil
}
