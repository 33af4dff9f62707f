package errlog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileLog appends failure summaries to a local file, one line per entry.
type FileLog struct {
	now func() time.Time

	mu sync.Mutex
	f  *os.File
}

// NewFileLog opens (or creates) the log file at path in append mode.
func NewFileLog(path string) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	return &FileLog{now: time.Now, f: f}, nil
}

// Append writes one timestamped line.
func (l *FileLog) Append(ctx context.Context, message string) error {
	line := fmt.Sprintf("%s %s\n", l.now().UTC().Format(time.RFC3339), message)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to error log: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
