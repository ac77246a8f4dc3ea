package structure

import (
	"context"
	"sort"

	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/storage"
)

// Comparator classifies the filtered union of two trees by presence
type Comparator struct {
	scanner *Scanner
}

// NewComparator creates a structure comparator using the given scanner
func NewComparator(scanner *Scanner) *Comparator {
	return &Comparator{scanner: scanner}
}

// Compare scans both targets and returns one entry per distinct
// relative path, sorted lexicographically. A path that is a file on one
// side and a directory on the other is classified as present in both
// with the TypeConflict flag set; later stages skip such paths but the
// conflict stays visible in every depth's output.
func (c *Comparator) Compare(ctx context.Context, left, right storage.Backend) ([]models.StructureEntry, *Tree, *Tree, error) {
	leftTree, err := c.scanner.Scan(ctx, left)
	if err != nil {
		return nil, nil, nil, models.NewConfigError("cannot scan left root %s: %v", left.Root(), err)
	}

	rightTree, err := c.scanner.Scan(ctx, right)
	if err != nil {
		return nil, nil, nil, models.NewConfigError("cannot scan right root %s: %v", right.Root(), err)
	}

	entries, err := Classify(leftTree, rightTree)
	if err != nil {
		return nil, nil, nil, err
	}
	return entries, leftTree, rightTree, nil
}

// Classify builds the presence entries for two scanned trees
func Classify(left, right *Tree) ([]models.StructureEntry, error) {
	seen := make(map[string]bool)
	var entries []models.StructureEntry

	add := func(e models.StructureEntry) error {
		if seen[e.RelativePath] {
			return models.NewInvariantError("duplicate relative path %q in structure entries", e.RelativePath)
		}
		seen[e.RelativePath] = true
		entries = append(entries, e)
		return nil
	}

	for rel := range left.Files {
		e := models.StructureEntry{RelativePath: rel}
		if _, inRight := right.Files[rel]; inRight {
			e.Presence = models.PresenceBoth
		} else if _, dirRight := right.Dirs[rel]; dirRight {
			e.Presence = models.PresenceBoth
			e.TypeConflict = true
		} else {
			e.Presence = models.PresenceLeftOnly
		}
		if err := add(e); err != nil {
			return nil, err
		}
	}

	for rel := range right.Files {
		if _, inLeft := left.Files[rel]; inLeft {
			continue
		}
		e := models.StructureEntry{RelativePath: rel, Presence: models.PresenceRightOnly}
		if _, dirLeft := left.Dirs[rel]; dirLeft {
			e.Presence = models.PresenceBoth
			e.TypeConflict = true
		}
		if err := add(e); err != nil {
			return nil, err
		}
	}

	// Inaccessible directories surface as entries carrying the access
	// error so the run can complete with clearly flagged failures.
	for rel, msg := range left.Errors {
		if seen[rel] {
			continue
		}
		presence := models.PresenceLeftOnly
		if _, ok := right.Dirs[rel]; ok {
			presence = models.PresenceBoth
		} else if _, ok := right.Errors[rel]; ok {
			presence = models.PresenceBoth
		}
		if err := add(models.StructureEntry{RelativePath: rel, Presence: presence, Error: msg}); err != nil {
			return nil, err
		}
	}
	for rel, msg := range right.Errors {
		if seen[rel] {
			continue
		}
		presence := models.PresenceRightOnly
		if _, ok := left.Dirs[rel]; ok {
			presence = models.PresenceBoth
		}
		if err := add(models.StructureEntry{RelativePath: rel, Presence: presence, Error: msg}); err != nil {
			return nil, err
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return entries, nil
}
