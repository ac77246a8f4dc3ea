package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	// Name is the base name of the entry
	Name string
	// Path is the absolute path on the filesystem
	Path string
	// RelativePath is the slash-separated path relative to the root
	RelativePath string
	// Size in bytes
	Size int64
	// ModTime is the last modification time
	ModTime time.Time
	// IsDir indicates a directory
	IsDir bool
}

// Backend defines the read-only interface for a comparison target.
// The comparison pipeline never mutates the filesystem, so the surface
// is limited to enumeration and streaming reads.
type Backend interface {
	// ReadDir lists the immediate children of a directory, sorted by name
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a file for streaming reads
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns metadata for a path
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a path exists
	Exists(ctx context.Context, path string) (bool, error)

	// Root returns the absolute root path of the target
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
