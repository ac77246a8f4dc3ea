package models

import (
	"time"
)

// Stats holds the summary counts for a comparison run
type Stats struct {
	// TotalPaths is the number of distinct relative paths enumerated
	TotalPaths int `json:"total_paths"`

	// Added counts paths present only under the right root
	Added int `json:"added"`
	// Removed counts paths present only under the left root
	Removed int `json:"removed"`
	// Modified counts paths whose content differs
	Modified int `json:"modified"`
	// Identical counts paths whose content matches
	Identical int `json:"identical"`

	// TypeConflicts counts paths that are a file on one side and a
	// directory on the other
	TypeConflicts int `json:"type_conflicts"`
	// Errors counts paths that ended in an error state at any stage
	Errors int `json:"errors"`
}

// DiffResult is the immutable aggregate handed to renderers. Each stage
// contributes an independent collection keyed by relative path; deeper
// depths are strict supersets of information, never replacements.
// Content is non-nil only when depth covers content, Text only when
// depth covers text. Renderers must treat the result as read-only.
type DiffResult struct {
	// RunID uniquely identifies the comparison run
	RunID string `json:"run_id"`

	// LeftRoot and RightRoot are the absolute root paths compared
	LeftRoot  string `json:"left_root"`
	RightRoot string `json:"right_root"`

	// Depth is the resolved comparison depth for the run
	Depth Depth `json:"depth"`

	Structure []StructureEntry `json:"structure"`
	Content   []ContentEntry   `json:"content,omitempty"`
	Text      []TextDiffEntry  `json:"text,omitempty"`

	Stats Stats `json:"stats"`

	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// ComputeStats derives summary counts from the stage collections.
// Added/removed come from structure presence; identical/modified come
// from content entries when the content stage ran, otherwise they stay
// zero (structure depth does not inspect content).
func ComputeStats(structure []StructureEntry, content []ContentEntry, text []TextDiffEntry) Stats {
	var s Stats
	s.TotalPaths = len(structure)

	for _, e := range structure {
		switch {
		case e.TypeConflict:
			s.TypeConflicts++
		case e.Presence == PresenceLeftOnly:
			s.Removed++
		case e.Presence == PresenceRightOnly:
			s.Added++
		}
		if e.Error != "" {
			s.Errors++
		}
	}

	for _, e := range content {
		switch e.Status {
		case ContentIdentical:
			s.Identical++
		case ContentModified:
			s.Modified++
		case ContentError:
			s.Errors++
		}
	}

	for _, e := range text {
		if e.Status == TextError {
			s.Errors++
		}
	}

	return s
}
