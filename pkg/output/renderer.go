// Package output renders comparison results. Renderers consume the
// immutable DiffResult and never trigger re-computation.
package output

import (
	"io"

	"github.com/jmalherbe/deepdiff/pkg/models"
)

// Renderer writes a DiffResult to a stream
type Renderer interface {
	// Render writes the result; the result must be treated as read-only
	Render(w io.Writer, result *models.DiffResult) error

	// Name returns the renderer name
	Name() string
}

// ProgressReporter receives pipeline progress events. Implementations
// must be safe for concurrent PathDone calls.
type ProgressReporter interface {
	// StageStart announces a stage and how many paths it will process
	StageStart(stage string, totalPaths int)

	// PathDone reports completion of one path within the current stage
	PathDone(path string)

	// Finish tears down any in-flight display
	Finish()
}
