package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmalherbe/deepdiff/pkg/config"
	"github.com/jmalherbe/deepdiff/pkg/models"
)

// validateCompareFlags validates the compare flags
func validateCompareFlags() error {
	if compareFlags.Depth != "" {
		if _, err := models.ParseDepth(compareFlags.Depth); err != nil {
			return fmt.Errorf("invalid depth: %s (valid: auto, structure, content, text)", compareFlags.Depth)
		}
	}

	if compareFlags.Hash != "" {
		if _, err := models.ParseHashAlgorithm(compareFlags.Hash); err != nil {
			return fmt.Errorf("invalid hash algorithm: %s (valid: sha256, md5)", compareFlags.Hash)
		}
	}

	if compareFlags.ContextLines < 0 {
		return fmt.Errorf("context-lines must be zero or positive")
	}

	validOutputs := map[string]bool{"": true, "human": true, "json": true}
	if !validOutputs[compareFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", compareFlags.Output)
	}

	validReportFormats := map[string]bool{"human": true, "json": true}
	if !validReportFormats[compareFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", compareFlags.ReportFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	if compareFlags.Depth != "" {
		cfg.Compare.Depth = compareFlags.Depth
	}
	if cmd.Flags().Changed("context-lines") {
		cfg.Compare.ContextLines = compareFlags.ContextLines
	}
	if compareFlags.Hash != "" {
		cfg.Compare.HashAlgo = compareFlags.Hash
	}

	if compareFlags.Hidden {
		cfg.Filter.IncludeHidden = true
	}
	if compareFlags.NoIgnore {
		cfg.Filter.RespectIgnoreFiles = false
	}
	if len(compareFlags.Include) > 0 {
		cfg.Filter.Include = compareFlags.Include
	}
	if len(compareFlags.Exclude) > 0 {
		cfg.Filter.Exclude = compareFlags.Exclude
	}

	// Workers (default: 5)
	if compareFlags.Workers > 0 {
		cfg.Performance.MaxWorkers = compareFlags.Workers
	} else if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = 5
	}

	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}
	if compareFlags.NoColor {
		cfg.Output.Color = false
	}
	if compareFlags.NoProgress {
		cfg.Output.Progress = false
	}

	if compareFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = compareFlags.LogFile
		cfg.Logging.Format = compareFlags.LogFormat
		cfg.Logging.Level = compareFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}
}

// parseBandwidth parses a human bandwidth value like "500K", "10M" or
// "1G" into bytes per second. An empty value means no limit.
func parseBandwidth(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	multiplier := int64(1)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "K"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "K")
	case strings.HasSuffix(upper, "M"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "M")
	case strings.HasSuffix(upper, "G"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "G")
	}

	value, err := strconv.ParseInt(upper, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid bandwidth limit: %s (e.g., \"500K\", \"10M\", \"1G\")", s)
	}

	return value * multiplier, nil
}
