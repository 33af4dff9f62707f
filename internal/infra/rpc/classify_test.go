package rpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// captureLog is an errlog.Log recording appended summaries.
type captureLog struct {
	lines []string
}

func (c *captureLog) Append(ctx context.Context, message string) error {
	c.lines = append(c.lines, message)
	return nil
}

func (c *captureLog) Close() error { return nil }

func TestClassify_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		resp    *ErrorResponse
		check   func(t *testing.T, err error)
		wantMsg string
	}{
		{
			name: "posix error",
			resp: &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoAccess, Message: "not allowed"},
			check: func(t *testing.T, err error) {
				var pf *PosixFailure
				if !errors.As(err, &pf) {
					t.Fatalf("expected PosixFailure, got %T", err)
				}
				if pf.Errno != ErrnoAccess || pf.Message != "not allowed" {
					t.Errorf("unexpected failure: %+v", pf)
				}
			},
			wantMsg: "EACCES",
		},
		{
			name: "io error",
			resp: &ErrorResponse{Type: ErrorTypeIO, Message: "connection reset"},
			check: func(t *testing.T, err error) {
				var tf *TransportFailure
				if !errors.As(err, &tf) {
					t.Fatalf("expected TransportFailure, got %T", err)
				}
			},
			wantMsg: "connection reset",
		},
		{
			name: "internal server error",
			resp: &ErrorResponse{Type: ErrorTypeInternalServer, Message: "NPE"},
			check: func(t *testing.T, err error) {
				var sf *ServerFailure
				if !errors.As(err, &sf) {
					t.Fatalf("expected ServerFailure, got %T", err)
				}
			},
			wantMsg: "NPE",
		},
		{
			name: "redirect",
			resp: &ErrorResponse{Type: ErrorTypeRedirect, RedirectTo: "mrc-new-master"},
			check: func(t *testing.T, err error) {
				var rf *RedirectFailure
				if !errors.As(err, &rf) {
					t.Fatalf("expected RedirectFailure, got %T", err)
				}
				if rf.TargetUUID != "mrc-new-master" {
					t.Errorf("expected target mrc-new-master, got %s", rf.TargetUUID)
				}
			},
			wantMsg: "mrc-new-master",
		},
		{
			name: "unrecognized type",
			resp: &ErrorResponse{Type: ErrorType(99), Message: "garbage"},
			check: func(t *testing.T, err error) {
				var uf *UnclassifiedFailure
				if !errors.As(err, &uf) {
					t.Fatalf("expected UnclassifiedFailure, got %T", err)
				}
				if uf.TypeName != "ERROR_TYPE(99)" {
					t.Errorf("unexpected type name %s", uf.TypeName)
				}
			},
			wantMsg: "garbage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureLog{}
			c := NewClassifier(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), sink)

			err := c.Classify(context.Background(), tt.resp)
			tt.check(t, err)

			if len(sink.lines) != 1 {
				t.Fatalf("expected 1 error log entry, got %d", len(sink.lines))
			}
			if !strings.Contains(sink.lines[0], tt.wantMsg) {
				t.Errorf("error log entry %q missing %q", sink.lines[0], tt.wantMsg)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	c := NewClassifier(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)
	resp := &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoNoEnt, Message: "gone"}

	first := c.Classify(context.Background(), resp)
	second := c.Classify(context.Background(), resp)

	if first.Error() != second.Error() {
		t.Errorf("classification not deterministic: %q vs %q", first.Error(), second.Error())
	}
}

func TestClassify_ENOENTLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewClassifier(logger, nil)

	c.Classify(context.Background(), &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoNoEnt, Message: "no entry"})
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("expected ENOENT at debug level, log was: %s", buf.String())
	}

	buf.Reset()
	c.Classify(context.Background(), &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoAccess, Message: "denied"})
	if !strings.Contains(buf.String(), "level=INFO") {
		t.Errorf("expected other posix errors at info level, log was: %s", buf.String())
	}
}

func TestClassify_Cancelled(t *testing.T) {
	sink := &captureLog{}
	c := NewClassifier(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), sink)

	err := c.Cancelled(context.Background(), context.Canceled)
	var cf *CancelledFailure
	if !errors.As(err, &cf) {
		t.Fatalf("expected CancelledFailure, got %T", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected the cancellation cause to be wrapped")
	}
	if len(sink.lines) != 1 {
		t.Errorf("expected 1 error log entry, got %d", len(sink.lines))
	}
}
