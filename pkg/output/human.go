package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/jmalherbe/deepdiff/pkg/models"
)

// noNewlineMarker flags a final line without a trailing newline
const noNewlineMarker = `\ No newline at end of file`

// HumanRenderer writes a readable report with optional ANSI colors
type HumanRenderer struct {
	added    *color.Color
	removed  *color.Color
	modified *color.Color
	header   *color.Color
}

// NewHumanRenderer creates a human-readable renderer. When colorize is
// false all output is plain text.
func NewHumanRenderer(colorize bool) *HumanRenderer {
	r := &HumanRenderer{
		added:    color.New(color.FgGreen),
		removed:  color.New(color.FgRed),
		modified: color.New(color.FgYellow),
		header:   color.New(color.FgCyan),
	}
	if !colorize {
		r.added.DisableColor()
		r.removed.DisableColor()
		r.modified.DisableColor()
		r.header.DisableColor()
	}
	return r
}

// Name returns the renderer name
func (r *HumanRenderer) Name() string {
	return "human"
}

// Render writes the structure listing, per-file hunks when present,
// and the summary
func (r *HumanRenderer) Render(w io.Writer, result *models.DiffResult) error {
	fmt.Fprintf(w, "Comparing %s and %s (depth: %s)\n\n", result.LeftRoot, result.RightRoot, result.Depth)

	contentByPath := make(map[string]models.ContentEntry, len(result.Content))
	for _, e := range result.Content {
		contentByPath[e.RelativePath] = e
	}

	for _, entry := range result.Structure {
		switch {
		case entry.Error != "":
			r.modified.Fprintf(w, "! %s (inaccessible: %s)\n", entry.RelativePath, entry.Error)
		case entry.TypeConflict:
			r.modified.Fprintf(w, "! %s (file/directory conflict)\n", entry.RelativePath)
		case entry.Presence == models.PresenceLeftOnly:
			r.removed.Fprintf(w, "- %s\n", entry.RelativePath)
		case entry.Presence == models.PresenceRightOnly:
			r.added.Fprintf(w, "+ %s\n", entry.RelativePath)
		default:
			if c, ok := contentByPath[entry.RelativePath]; ok {
				switch c.Status {
				case models.ContentModified:
					r.modified.Fprintf(w, "~ %s (%s)\n", entry.RelativePath, c.Reason)
				case models.ContentError:
					r.modified.Fprintf(w, "! %s (error: %s)\n", entry.RelativePath, c.Error)
				default:
					fmt.Fprintf(w, "  %s\n", entry.RelativePath)
				}
			} else {
				fmt.Fprintf(w, "  %s\n", entry.RelativePath)
			}
		}
	}

	for i := range result.Text {
		r.renderTextEntry(w, &result.Text[i])
	}

	r.renderSummary(w, result)
	return nil
}

func (r *HumanRenderer) renderTextEntry(w io.Writer, entry *models.TextDiffEntry) {
	switch entry.Status {
	case models.TextBinary:
		verdict := "differ"
		if entry.BinaryEqual {
			verdict = "are identical"
		}
		fmt.Fprintf(w, "\nBinary files %s %s\n", entry.RelativePath, verdict)
		return
	case models.TextError:
		r.modified.Fprintf(w, "\n%s: %s\n", entry.RelativePath, entry.Error)
		return
	case models.TextIdentical:
		return
	}

	r.header.Fprintf(w, "\n--- a/%s\n+++ b/%s\n", entry.RelativePath, entry.RelativePath)
	for _, hunk := range entry.Hunks {
		r.header.Fprintf(w, "@@ -%d,%d +%d,%d @@\n",
			hunk.LeftStart, hunk.LeftCount, hunk.RightStart, hunk.RightCount)
		for _, line := range hunk.Lines {
			text, hadNewline := strings.CutSuffix(line.Text, "\n")
			out := line.Origin.Prefix() + text
			switch line.Origin {
			case models.OriginRemoved:
				r.removed.Fprintln(w, out)
			case models.OriginAdded:
				r.added.Fprintln(w, out)
			default:
				fmt.Fprintln(w, out)
			}
			if !hadNewline {
				fmt.Fprintln(w, noNewlineMarker)
			}
		}
	}
}

func (r *HumanRenderer) renderSummary(w io.Writer, result *models.DiffResult) {
	s := result.Stats
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Paths compared: %d\n", s.TotalPaths)
	fmt.Fprintf(w, "  Added:          %d\n", s.Added)
	fmt.Fprintf(w, "  Removed:        %d\n", s.Removed)
	if result.Depth.Includes(models.DepthContent) {
		fmt.Fprintf(w, "  Modified:       %d\n", s.Modified)
		fmt.Fprintf(w, "  Identical:      %d\n", s.Identical)
	}
	if s.TypeConflicts > 0 {
		fmt.Fprintf(w, "  Type conflicts: %d\n", s.TypeConflicts)
	}
	if s.Errors > 0 {
		fmt.Fprintf(w, "  Errors:         %d\n", s.Errors)
	}
	fmt.Fprintf(w, "  Duration:       %s\n", result.Duration.Round(time.Millisecond))
}
