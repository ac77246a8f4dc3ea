package textdiff

import (
	"github.com/jmalherbe/deepdiff/pkg/models"
)

// lineRun is a contiguous run of lines sharing one origin, as produced
// by the edit script
type lineRun struct {
	origin models.LineOrigin
	lines  []string
}

// buildHunks trims an edit script into hunks. Context runs keep at most
// contextLines lines on each side of a change; an unchanged gap longer
// than 2*contextLines splits the script into independent hunks.
func buildHunks(runs []lineRun, contextLines int) []models.Hunk {
	var hunks []models.Hunk
	lineLeft, lineRight := 1, 1
	var cur *hunkBuilder
	var pending []string

	for i, r := range runs {
		n := len(r.lines)
		switch r.origin {
		case models.OriginContext:
			if cur == nil {
				// Hold the tail of the gap as leading context for the
				// next change.
				keep := min(n, contextLines)
				pending = r.lines[n-keep:]
			} else if i == len(runs)-1 {
				keep := min(n, contextLines)
				cur.add(models.OriginContext, r.lines[:keep])
			} else if n > 2*contextLines {
				cur.add(models.OriginContext, r.lines[:contextLines])
				hunks = append(hunks, cur.build())
				cur = nil
				pending = r.lines[n-contextLines:]
			} else {
				cur.add(models.OriginContext, r.lines)
			}
			lineLeft += n
			lineRight += n

		case models.OriginRemoved:
			if cur == nil {
				cur = openHunk(lineLeft, lineRight, pending)
				pending = nil
			}
			cur.add(models.OriginRemoved, r.lines)
			lineLeft += n

		case models.OriginAdded:
			if cur == nil {
				cur = openHunk(lineLeft, lineRight, pending)
				pending = nil
			}
			cur.add(models.OriginAdded, r.lines)
			lineRight += n
		}
	}

	if cur != nil {
		hunks = append(hunks, cur.build())
	}

	return hunks
}

// openHunk starts a hunk at the current positions, backdated over the
// held leading context
func openHunk(lineLeft, lineRight int, pending []string) *hunkBuilder {
	lead := len(pending)
	b := &hunkBuilder{
		leftStart:  lineLeft - lead,
		rightStart: lineRight - lead,
	}
	b.add(models.OriginContext, pending)
	return b
}

type hunkBuilder struct {
	leftStart  int
	rightStart int
	leftCount  int
	rightCount int
	lines      []models.Line
}

func (b *hunkBuilder) add(origin models.LineOrigin, lines []string) {
	for _, text := range lines {
		b.lines = append(b.lines, models.Line{Origin: origin, Text: text})
	}
	switch origin {
	case models.OriginContext:
		b.leftCount += len(lines)
		b.rightCount += len(lines)
	case models.OriginRemoved:
		b.leftCount += len(lines)
	case models.OriginAdded:
		b.rightCount += len(lines)
	}
}

func (b *hunkBuilder) build() models.Hunk {
	return models.Hunk{
		LeftStart:  b.leftStart,
		LeftCount:  b.leftCount,
		RightStart: b.rightStart,
		RightCount: b.rightCount,
		Lines:      b.lines,
	}
}
