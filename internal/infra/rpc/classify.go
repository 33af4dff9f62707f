package rpc

import (
	"context"
	"log/slog"

	"github.com/vietddude/dfsclient/internal/infra/errlog"
	"github.com/vietddude/dfsclient/internal/metrics"
)

// Classifier maps server error responses into typed failures. Classification
// is a pure mapping; the only side effects are structured logging and one
// append to the persistent error log per terminal failure.
//
// The classifier never decides to retry: retry eligibility is the engine's
// call, combining the error type with its attempt budget and cancellation
// state.
type Classifier struct {
	logger *slog.Logger
	errlog errlog.Log
}

// NewClassifier creates a classifier. A nil logger falls back to
// slog.Default; a nil sink discards error records.
func NewClassifier(logger *slog.Logger, sink errlog.Log) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = errlog.Nop()
	}
	return &Classifier{logger: logger, errlog: sink}
}

// Classify converts a structured server error into the corresponding typed
// failure, logging it and appending it to the error log.
func (c *Classifier) Classify(ctx context.Context, resp *ErrorResponse) error {
	var failure error

	switch resp.Type {
	case ErrorTypePosix:
		failure = &PosixFailure{Errno: resp.PosixErrno, Message: resp.Message}
		level := slog.LevelInfo
		if resp.PosixErrno == ErrnoNoEnt {
			level = slog.LevelDebug
		}
		c.report(ctx, level, "posix", failure.Error())

	case ErrorTypeIO:
		failure = &TransportFailure{Message: resp.Message}
		c.report(ctx, slog.LevelError, "transport", failure.Error())

	case ErrorTypeInternalServer:
		failure = &ServerFailure{Message: resp.Message}
		c.report(ctx, slog.LevelError, "server", failure.Error())

	case ErrorTypeRedirect:
		failure = &RedirectFailure{TargetUUID: resp.RedirectTo}
		c.report(ctx, slog.LevelInfo, "redirect", failure.Error())

	default:
		failure = &UnclassifiedFailure{TypeName: resp.Type.String(), Message: resp.Message}
		c.report(ctx, slog.LevelError, "unclassified", failure.Error())
	}

	return failure
}

// Cancelled records a call aborted by external interruption and returns the
// corresponding failure.
func (c *Classifier) Cancelled(ctx context.Context, cause error) error {
	failure := &CancelledFailure{Cause: cause}
	c.report(ctx, slog.LevelInfo, "cancelled", failure.Error())
	return failure
}

func (c *Classifier) report(ctx context.Context, level slog.Level, kind, summary string) {
	metrics.RPCFailuresTotal.WithLabelValues(kind).Inc()
	c.logger.Log(ctx, level, summary)
	if err := c.errlog.Append(ctx, summary); err != nil {
		c.logger.Warn("failed to append to error log", "error", err)
	}
}
