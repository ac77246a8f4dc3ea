package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmalherbe/deepdiff/internal/gitref"
	"github.com/jmalherbe/deepdiff/pkg/config"
	"github.com/jmalherbe/deepdiff/pkg/diff"
	"github.com/jmalherbe/deepdiff/pkg/filter"
	"github.com/jmalherbe/deepdiff/pkg/logging"
	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/output"
)

// Exit codes: 0 no differences, 1 differences found, 2 errors during
// the run (inaccessible paths count as errors, not differences)
const (
	exitClean       = 0
	exitDifferences = 1
	exitErrors      = 2
)

// CompareFlags holds compare flags
type CompareFlags struct {
	Depth        string
	ContextLines int
	Hash         string
	Workers      int
	Hidden       bool
	NoIgnore     bool
	Include      []string
	Exclude      []string
	Output       string
	NoColor      bool
	NoProgress   bool
	Report       string
	ReportFormat string
	Bandwidth    string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var compareFlags CompareFlags

// AddCompareFlags registers the comparison flags on the root command
func AddCompareFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&compareFlags.Depth, "depth", "d", "", "comparison depth: auto, structure, content, text")
	cmd.Flags().IntVarP(&compareFlags.ContextLines, "context-lines", "c", 3, "unchanged lines shown around each change")
	cmd.Flags().StringVar(&compareFlags.Hash, "hash", "", "fingerprint algorithm: sha256, md5")
	cmd.Flags().IntVarP(&compareFlags.Workers, "workers", "w", 0, "number of parallel workers (default: 5)")
	cmd.Flags().BoolVar(&compareFlags.Hidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().BoolVar(&compareFlags.NoIgnore, "no-ignore", false, "do not honor .gitignore files")
	cmd.Flags().StringSliceVar(&compareFlags.Include, "include", []string{}, "glob patterns to include (files only)")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.NoColor, "no-color", false, "disable colors in human output")
	cmd.Flags().BoolVar(&compareFlags.NoProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().StringVar(&compareFlags.Report, "report", "", "write the result to a file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "report file format: human, json")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "fingerprint read limit (e.g., \"10M\", \"1G\")")

	// Logging flags
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// RunCompare is the root command handler: compare LEFT and RIGHT
func RunCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateCompareFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Resolve git:REF targets into extracted trees
	resolver := gitref.NewResolver("")
	defer resolver.Cleanup()

	leftPath, err := resolver.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve left target: %w", err)
	}
	rightPath, err := resolver.Resolve(args[1])
	if err != nil {
		return fmt.Errorf("failed to resolve right target: %w", err)
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	var progress output.ProgressReporter = output.NullProgress{}
	if cfg.Output.Progress && !cfg.Output.Quiet && cfg.Output.Format == "human" {
		progress = output.NewProgressBar(os.Stderr)
	}

	bandwidth, err := parseBandwidth(compareFlags.Bandwidth)
	if err != nil {
		return err
	}
	if bandwidth == 0 {
		bandwidth = cfg.Performance.BandwidthLimit
	}

	depth, _ := models.ParseDepth(cfg.Compare.Depth)
	algorithm, _ := models.ParseHashAlgorithm(cfg.Compare.HashAlgo)

	engine, err := diff.NewEngine(diff.Options{
		Depth: depth,
		Filter: filter.Config{
			IncludeHidden:      cfg.Filter.IncludeHidden,
			RespectIgnoreFiles: cfg.Filter.RespectIgnoreFiles,
			IncludeGlobs:       cfg.Filter.Include,
			ExcludeGlobs:       cfg.Filter.Exclude,
		},
		ContextLines:   cfg.Compare.ContextLines,
		Algorithm:      algorithm,
		Workers:        cfg.Performance.MaxWorkers,
		BandwidthLimit: bandwidth,
		Logger:         logger,
		Progress:       progress,
	})
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, leftPath, rightPath)
	if err != nil {
		return err
	}

	if !cfg.Output.Quiet {
		var renderer output.Renderer
		switch cfg.Output.Format {
		case "json":
			renderer = output.NewJSONRenderer()
		default:
			renderer = output.NewHumanRenderer(cfg.Output.Color)
		}
		if err := renderer.Render(os.Stdout, result); err != nil {
			return fmt.Errorf("failed to render result: %w", err)
		}
	}

	if compareFlags.Report != "" {
		if err := output.WriteReport(result, compareFlags.Report, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	// Deferred cleanups do not run past os.Exit
	resolver.Cleanup()
	logger.Close()
	os.Exit(exitCode(result.Stats))
	return nil
}

func exitCode(stats models.Stats) int {
	if stats.Errors > 0 {
		return exitErrors
	}
	if stats.Added+stats.Removed+stats.Modified+stats.TypeConflicts > 0 {
		return exitDifferences
	}
	return exitClean
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	if !cfg.Enabled || cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileConfig{
		Path:    cfg.File,
		Format:  format,
		Level:   logging.ParseLevel(cfg.Level),
		MaxSize: 10 * 1024 * 1024, // 10 MB
	})
}
