// Package structure walks two filtered trees and classifies each
// relative path by presence.
package structure

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jmalherbe/deepdiff/pkg/filter"
	"github.com/jmalherbe/deepdiff/pkg/storage"
)

// Tree is the filtered enumeration of one comparison target
type Tree struct {
	// Files maps relative path to metadata for every file that passed
	// the filter
	Files map[string]storage.FileInfo

	// Dirs records every directory that was descended into. Kept so the
	// comparator can detect file-vs-directory conflicts between sides.
	Dirs map[string]struct{}

	// Errors maps relative directory paths to the access error that
	// prevented scanning them. Inaccessible directories do not abort
	// the scan.
	Errors map[string]string
}

// Scanner enumerates the filtered relative paths of a target
type Scanner struct {
	rules *filter.Rules
}

// NewScanner creates a scanner with the given compiled filter rules
func NewScanner(rules *filter.Rules) *Scanner {
	return &Scanner{rules: rules}
}

// Scan walks the backend's tree depth-first and returns the filtered
// enumeration. Ignore files are collected per directory and inherited
// by descendants through a rule stack passed down by value, so sibling
// subtrees never share mutable state. A read failure on the root is
// returned as an error; failures below the root are recorded in
// Tree.Errors and the walk continues.
func (s *Scanner) Scan(ctx context.Context, backend storage.Backend) (*Tree, error) {
	tree := &Tree{
		Files:  make(map[string]storage.FileInfo),
		Dirs:   make(map[string]struct{}),
		Errors: make(map[string]string),
	}

	if err := s.walk(ctx, backend, "", filter.IgnoreStack{}, tree, true); err != nil {
		return nil, err
	}

	return tree, nil
}

func (s *Scanner) walk(ctx context.Context, backend storage.Backend, dir string, ignores filter.IgnoreStack, tree *Tree, isRoot bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := backend.ReadDir(ctx, dir)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if isRoot {
			return err
		}
		tree.Errors[dir] = err.Error()
		return nil
	}

	// Ignore files apply to their directory and everything below it,
	// even when the directory itself is hidden.
	if s.rules.RespectIgnoreFiles() {
		for _, entry := range entries {
			if !entry.IsDir && entry.Name == filter.IgnoreFilename {
				lines, err := readLines(ctx, backend, entry.RelativePath)
				if err == nil {
					ignores = ignores.Push(dir, lines)
				}
				break
			}
		}
	}

	for _, entry := range entries {
		if entry.IsDir {
			if !s.rules.Included(entry.RelativePath, true, ignores) {
				continue
			}
			tree.Dirs[entry.RelativePath] = struct{}{}
			if err := s.walk(ctx, backend, entry.RelativePath, ignores, tree, false); err != nil {
				return err
			}
			continue
		}

		if s.rules.Included(entry.RelativePath, false, ignores) {
			tree.Files[entry.RelativePath] = entry
		}
	}

	return nil
}

func readLines(ctx context.Context, backend storage.Backend, path string) ([]string, error) {
	r, err := backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
