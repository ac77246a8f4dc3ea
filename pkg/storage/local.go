package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmalherbe/deepdiff/internal/platform"
)

// Local is a filesystem-based read-only backend rooted at a file or
// directory
type Local struct {
	rootPath string
	isDir    bool
}

// NewLocal creates a new local filesystem backend. The root must exist;
// it may be a regular file (single-file comparison target) or a
// directory (tree target).
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(platform.NormalizePath(rootPath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	return &Local{rootPath: absPath, isDir: info.IsDir()}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// IsDir reports whether the root is a directory
func (l *Local) IsDir() bool {
	return l.isDir
}

// ReadDir lists the immediate children of a directory relative to the
// root. os.ReadDir returns entries sorted by name, which keeps
// traversal order deterministic across platforms.
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fullPath := l.resolve(path)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info
			continue
		}
		rel := filepath.ToSlash(filepath.Join(path, entry.Name()))
		infos = append(infos, FileInfo{
			Name:         entry.Name(),
			Path:         filepath.Join(fullPath, entry.Name()),
			RelativePath: rel,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			IsDir:        entry.IsDir(),
		})
	}

	return infos, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(l.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := l.resolve(path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Name:         info.Name(),
		Path:         fullPath,
		RelativePath: filepath.ToSlash(path),
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
	}, nil
}

// Exists checks if a path exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(l.resolve(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// resolve joins a slash-separated relative path onto the root. When
// the root is a regular file every path addresses the root itself, so
// single-file targets can be read under their display name.
func (l *Local) resolve(path string) string {
	if !l.isDir || path == "" || path == "." {
		return l.rootPath
	}
	return filepath.Join(l.rootPath, filepath.FromSlash(path))
}
