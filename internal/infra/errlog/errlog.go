// Package errlog provides append-only sinks for terminal RPC failure
// summaries. Every failure the client surfaces is appended to one of these
// sinks before the caller sees it, so operators keep a durable trail
// independent of error handling above.
package errlog

import (
	"context"
	"time"
)

// Entry is one recorded failure.
type Entry struct {
	ID      string    `json:"id"      db:"id"`
	Message string    `json:"message" db:"message"`
	At      time.Time `json:"at"      db:"created_at"`
}

// Log is an append-only sink for human-readable failure summaries.
type Log interface {
	// Append records one failure summary.
	Append(ctx context.Context, message string) error

	// Close releases the sink's resources.
	Close() error
}

// Reader is implemented by sinks that retain history and can serve it back,
// newest first. The file and nop sinks are write-only and do not implement it.
type Reader interface {
	// Recent returns up to n most recent entries, newest first.
	Recent(ctx context.Context, n int) ([]Entry, error)
}

type nopLog struct{}

func (nopLog) Append(ctx context.Context, message string) error { return nil }
func (nopLog) Close() error                                     { return nil }

// Nop returns a sink that discards everything.
func Nop() Log {
	return nopLog{}
}
