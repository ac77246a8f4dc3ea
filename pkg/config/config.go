package config

import (
	"github.com/jmalherbe/deepdiff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Filter      FilterConfig      `yaml:"filter"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompareConfig holds pipeline settings
type CompareConfig struct {
	Depth        string `yaml:"depth"`          // "auto", "structure", "content", "text"
	ContextLines int    `yaml:"context_lines"`  // context window for text diffs
	HashAlgo     string `yaml:"hash_algorithm"` // "sha256" or "md5"
}

// FilterConfig holds path filtering settings
type FilterConfig struct {
	IncludeHidden      bool     `yaml:"include_hidden"`
	RespectIgnoreFiles bool     `yaml:"respect_ignore_files"`
	Include            []string `yaml:"include"`
	Exclude            []string `yaml:"exclude"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // show a progress bar during hashing
	Color    bool   `yaml:"color"`    // colorize human output
	Quiet    bool   `yaml:"quiet"`    // suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // log file path
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Depth:        string(models.DepthAuto),
			ContextLines: 3,
			HashAlgo:     string(models.HashSHA256),
		},
		Filter: FilterConfig{
			IncludeHidden:      false,
			RespectIgnoreFiles: true,
		},
		Performance: PerformanceConfig{
			MaxWorkers:     5,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Color:    true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseDepth(c.Compare.Depth); err != nil {
		return &models.ValidationError{
			Field:   "compare.depth",
			Message: err.Error(),
		}
	}

	if c.Compare.ContextLines < 0 {
		return &models.ValidationError{
			Field:   "compare.context_lines",
			Message: "must be zero or positive",
		}
	}

	if _, err := models.ParseHashAlgorithm(c.Compare.HashAlgo); err != nil {
		return &models.ValidationError{
			Field:   "compare.hash_algorithm",
			Message: err.Error(),
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must be zero or positive",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
