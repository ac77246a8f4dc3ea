package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileConfig holds configuration for file logging
type FileConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before the file is rotated
	// to Path + ".1"; zero disables rotation
	MaxSize int64
}

// FileLogger writes structured log lines to a file. Safe for
// concurrent use.
type FileLogger struct {
	config FileConfig
	fields Fields

	mu   *sync.Mutex
	file *os.File
	size int64
}

// NewFileLogger opens (or creates) the log file in append mode
func NewFileLogger(config FileConfig) (*FileLogger, error) {
	if config.Format == "" {
		config.Format = FormatJSON
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		config: config,
		mu:     &sync.Mutex{},
		file:   file,
		size:   info.Size(),
	}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.write(DebugLevel, "debug", msg, nil, fields)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.write(InfoLevel, "info", msg, nil, fields)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.write(WarnLevel, "warn", msg, nil, fields)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.write(ErrorLevel, "error", msg, err, fields)
}

// WithFields returns a logger carrying additional fields. The new
// logger shares the underlying file and lock.
func (l *FileLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	clone := *l
	clone.fields = merged
	return &clone
}

// Close flushes and closes the log file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *FileLogger) write(level Level, name, msg string, err error, fields Fields) {
	if level < l.config.Level {
		return
	}

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if err != nil {
		merged["error"] = err.Error()
	}

	var line string
	if l.config.Format == FormatText {
		line = formatText(name, msg, merged)
	} else {
		line = formatJSON(name, msg, merged)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	if l.config.MaxSize > 0 && l.size+int64(len(line)) > l.config.MaxSize {
		l.rotate()
	}

	n, werr := l.file.WriteString(line)
	if werr == nil {
		l.size += int64(n)
	}
}

// rotate renames the current file to .1 and reopens; callers hold the
// lock
func (l *FileLogger) rotate() {
	l.file.Close()
	os.Rename(l.config.Path, l.config.Path+".1")
	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.file = nil
		return
	}
	l.file = file
	l.size = 0
}

func formatJSON(level, msg string, fields Fields) string {
	record := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"level":     level,
		"message":   msg,
	}
	for k, v := range fields {
		record[k] = v
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"message":%q}`+"\n", level, msg)
	}
	return string(data) + "\n"
}

func formatText(level, msg string, fields Fields) string {
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(level))
	b.WriteString("] ")
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteString("\n")
	return b.String()
}
