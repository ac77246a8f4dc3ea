// Package diff orchestrates the layered comparison pipeline: filter,
// structure, content, text, aggregated into an immutable result.
package diff

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jmalherbe/deepdiff/pkg/content"
	"github.com/jmalherbe/deepdiff/pkg/filter"
	"github.com/jmalherbe/deepdiff/pkg/logging"
	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/output"
	"github.com/jmalherbe/deepdiff/pkg/ratelimit"
	"github.com/jmalherbe/deepdiff/pkg/storage"
	"github.com/jmalherbe/deepdiff/pkg/structure"
	"github.com/jmalherbe/deepdiff/pkg/textdiff"
)

// Options configures an Engine
type Options struct {
	// Depth is the requested comparison depth; DepthAuto resolves from
	// the target types
	Depth models.Depth

	// Filter holds the path filtering rules
	Filter filter.Config

	// ContextLines is the context window for text diffs
	ContextLines int

	// Algorithm selects the content fingerprint digest
	Algorithm models.HashAlgorithm

	// Workers bounds per-path parallelism within a stage
	Workers int

	// BandwidthLimit caps fingerprinting read throughput in bytes per
	// second; zero disables the cap
	BandwidthLimit int64

	// Logger receives structured run logs; nil disables logging
	Logger logging.Logger

	// Progress receives per-stage progress events; nil disables them
	Progress output.ProgressReporter
}

// Engine runs the comparison pipeline. Stages are sequential by data
// dependency; work inside a stage fans out across workers. All
// configuration is resolved at construction so a single Engine can run
// repeatedly and deterministically.
type Engine struct {
	depth    models.Depth
	rules    *filter.Rules
	content  *content.Comparator
	text     *textdiff.Comparator
	logger   logging.Logger
	progress output.ProgressReporter
}

// NewEngine validates the options and builds the pipeline
func NewEngine(opts Options) (*Engine, error) {
	depth := opts.Depth
	if depth == "" {
		depth = models.DepthAuto
	}

	rules, err := filter.New(opts.Filter)
	if err != nil {
		return nil, models.NewConfigError("invalid filter configuration: %v", err)
	}

	contentComp, err := content.NewComparator(content.Options{
		Algorithm: opts.Algorithm,
		Workers:   opts.Workers,
		Bucket:    ratelimit.NewBucket(opts.BandwidthLimit),
	})
	if err != nil {
		return nil, models.NewConfigError("%v", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	progress := opts.Progress
	if progress == nil {
		progress = output.NullProgress{}
	}

	e := &Engine{
		depth:    depth,
		rules:    rules,
		content:  contentComp,
		text:     textdiff.NewComparator(opts.ContextLines, opts.Workers),
		logger:   logger,
		progress: progress,
	}
	e.content.SetFileDoneCallback(e.progress.PathDone)
	e.text.SetFileDoneCallback(e.progress.PathDone)
	return e, nil
}

// ContentComparator exposes the content stage so callers can attach
// progress reporting
func (e *Engine) ContentComparator() *content.Comparator {
	return e.content
}

// Run executes the pipeline over two filesystem roots and returns the
// aggregated result. Missing roots and mixed file/directory targets
// are configuration errors reported before any stage runs. On
// cancellation the error is returned and no partial result escapes.
func (e *Engine) Run(ctx context.Context, leftPath, rightPath string) (*models.DiffResult, error) {
	startTime := time.Now()

	left, err := storage.NewLocal(leftPath)
	if err != nil {
		return nil, models.NewConfigError("left root: %v", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(rightPath)
	if err != nil {
		return nil, models.NewConfigError("right root: %v", err)
	}
	defer right.Close()

	depth, err := e.resolveDepth(left, right)
	if err != nil {
		return nil, err
	}

	result := &models.DiffResult{
		RunID:     uuid.New().String(),
		LeftRoot:  left.Root(),
		RightRoot: right.Root(),
		Depth:     depth,
		StartTime: startTime,
	}

	e.logger.Info(ctx, "starting comparison", logging.Fields{
		"run_id": result.RunID,
		"left":   result.LeftRoot,
		"right":  result.RightRoot,
		"depth":  string(depth),
	})

	if left.IsDir() {
		err = e.runTrees(ctx, left, right, depth, result)
	} else {
		err = e.runFilePair(ctx, left, right, depth, result)
	}
	e.progress.Finish()
	if err != nil {
		e.logger.Error(ctx, "comparison aborted", err, logging.Fields{"run_id": result.RunID})
		return nil, err
	}

	result.Stats = models.ComputeStats(result.Structure, result.Content, result.Text)
	result.Duration = time.Since(startTime)

	e.logger.Info(ctx, "comparison complete", logging.Fields{
		"run_id":    result.RunID,
		"paths":     result.Stats.TotalPaths,
		"added":     result.Stats.Added,
		"removed":   result.Stats.Removed,
		"modified":  result.Stats.Modified,
		"identical": result.Stats.Identical,
		"errors":    result.Stats.Errors,
	})

	return result, nil
}

// resolveDepth applies the auto-detection rule: two directories default
// to structure, two files to text, and mixed targets are an input error
// at any depth.
func (e *Engine) resolveDepth(left, right *storage.Local) (models.Depth, error) {
	if left.IsDir() != right.IsDir() {
		return "", models.NewConfigError(
			"cannot compare a file with a directory: %s vs %s", left.Root(), right.Root())
	}

	if e.depth != models.DepthAuto {
		return e.depth, nil
	}
	if left.IsDir() {
		return models.DepthStructure, nil
	}
	return models.DepthText, nil
}

func (e *Engine) runTrees(ctx context.Context, left, right *storage.Local, depth models.Depth, result *models.DiffResult) error {
	structComp := structure.NewComparator(structure.NewScanner(e.rules))
	entries, _, _, err := structComp.Compare(ctx, left, right)
	if err != nil {
		return err
	}
	result.Structure = entries
	e.logger.Debug(ctx, "structure stage complete", logging.Fields{"entries": len(entries)})

	if !depth.Includes(models.DepthContent) {
		return nil
	}

	both := 0
	for _, entry := range entries {
		if entry.Presence == models.PresenceBoth && !entry.TypeConflict && entry.Error == "" {
			both++
		}
	}
	e.progress.StageStart("content", both)

	contentEntries, err := e.content.Compare(ctx, entries, left, right)
	if err != nil {
		return err
	}
	result.Content = contentEntries
	e.logger.Debug(ctx, "content stage complete", logging.Fields{"entries": len(contentEntries)})

	if !depth.Includes(models.DepthText) {
		return nil
	}

	modified := 0
	for _, entry := range contentEntries {
		if entry.Status == models.ContentModified {
			modified++
		}
	}
	e.progress.StageStart("text", modified)

	textEntries, err := e.text.Compare(ctx, contentEntries, left, right)
	if err != nil {
		return err
	}
	result.Text = textEntries
	e.logger.Debug(ctx, "text stage complete", logging.Fields{"entries": len(textEntries)})

	return nil
}

// runFilePair handles two single-file targets: the structure stage is a
// synthetic entry for the pair and deeper stages operate on it directly
func (e *Engine) runFilePair(ctx context.Context, left, right *storage.Local, depth models.Depth, result *models.DiffResult) error {
	rel := filepath.Base(left.Root())

	result.Structure = []models.StructureEntry{{
		RelativePath: rel,
		Presence:     models.PresenceBoth,
	}}

	if !depth.Includes(models.DepthContent) {
		return nil
	}

	contentEntry := e.content.CompareFilePair(ctx, rel, left, right)
	if err := ctx.Err(); err != nil {
		return err
	}
	result.Content = []models.ContentEntry{contentEntry}

	if !depth.Includes(models.DepthText) {
		return nil
	}

	if contentEntry.Status == models.ContentModified {
		textEntry := e.text.CompareFilePair(ctx, rel, left, right)
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Text = []models.TextDiffEntry{textEntry}
	} else {
		result.Text = []models.TextDiffEntry{}
	}

	return nil
}
