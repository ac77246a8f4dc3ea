package models

// LineOrigin classifies a line within a hunk
type LineOrigin string

const (
	// OriginContext is an unchanged line present on both sides
	OriginContext LineOrigin = "context"
	// OriginRemoved is a line present only on the left side
	OriginRemoved LineOrigin = "removed"
	// OriginAdded is a line present only on the right side
	OriginAdded LineOrigin = "added"
)

// Prefix returns the unified-diff marker for the origin
func (o LineOrigin) Prefix() string {
	switch o {
	case OriginRemoved:
		return "-"
	case OriginAdded:
		return "+"
	default:
		return " "
	}
}

// Line is a single line of a hunk. Text keeps its original line ending,
// so a final line without a trailing newline is distinguishable from one
// with it and hunks can be replayed byte-exactly.
type Line struct {
	Origin LineOrigin `json:"origin"`
	Text   string     `json:"text"`
}

// Hunk is a contiguous run of aligned lines. Starts are 1-based line
// numbers; counts are the number of lines the hunk spans on each side.
// Hunks within an entry are ordered by ascending LeftStart and never
// overlap.
type Hunk struct {
	LeftStart  int    `json:"left_start"`
	LeftCount  int    `json:"left_count"`
	RightStart int    `json:"right_start"`
	RightCount int    `json:"right_count"`
	Lines      []Line `json:"lines"`
}

// TextStatus is the outcome of a text-stage comparison
type TextStatus string

const (
	// TextModified indicates the sides differ and hunks describe how
	TextModified TextStatus = "modified"
	// TextIdentical indicates byte-equal sides (possible when the text
	// stage is invoked directly on a file pair)
	TextIdentical TextStatus = "identical"
	// TextBinary indicates non-decodable content; binary pairs are
	// reported same/different with no hunks
	TextBinary TextStatus = "binary"
	// TextError indicates a side could not be read
	TextError TextStatus = "error"
)

// TextDiffEntry is the text-stage record for one relative path
type TextDiffEntry struct {
	RelativePath string     `json:"relative_path"`
	Status       TextStatus `json:"status"`

	// Hunks is populated only for status "modified" on text content
	Hunks []Hunk `json:"hunks,omitempty"`

	// BinaryEqual is meaningful only for status "binary"
	BinaryEqual bool `json:"binary_equal,omitempty"`

	// Error holds the read failure for status "error"
	Error string `json:"error,omitempty"`
}

// LinesAdded counts added lines across all hunks
func (e *TextDiffEntry) LinesAdded() int {
	return e.countOrigin(OriginAdded)
}

// LinesRemoved counts removed lines across all hunks
func (e *TextDiffEntry) LinesRemoved() int {
	return e.countOrigin(OriginRemoved)
}

func (e *TextDiffEntry) countOrigin(origin LineOrigin) int {
	n := 0
	for _, h := range e.Hunks {
		for _, l := range h.Lines {
			if l.Origin == origin {
				n++
			}
		}
	}
	return n
}
