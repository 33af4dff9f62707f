package rpc

import (
	"fmt"
	"strconv"
)

// POSIX errno values as transmitted by servers. These are wire constants,
// not host errnos.
const (
	ErrnoPerm     = 1
	ErrnoNoEnt    = 2
	ErrnoIO       = 5
	ErrnoAgain    = 11
	ErrnoAccess   = 13
	ErrnoExist    = 17
	ErrnoNotDir   = 20
	ErrnoIsDir    = 21
	ErrnoInval    = 22
	ErrnoNoSpace  = 28
	ErrnoNotEmpty = 39
)

var errnoNames = map[int]string{
	ErrnoPerm:     "EPERM",
	ErrnoNoEnt:    "ENOENT",
	ErrnoIO:       "EIO",
	ErrnoAgain:    "EAGAIN",
	ErrnoAccess:   "EACCES",
	ErrnoExist:    "EEXIST",
	ErrnoNotDir:   "ENOTDIR",
	ErrnoIsDir:    "EISDIR",
	ErrnoInval:    "EINVAL",
	ErrnoNoSpace:  "ENOSPC",
	ErrnoNotEmpty: "ENOTEMPTY",
}

// ErrnoName returns the symbolic name of a wire errno, or its decimal form
// when unknown.
func ErrnoName(errno int) string {
	if name, ok := errnoNames[errno]; ok {
		return name
	}
	return strconv.Itoa(errno)
}

// PosixFailure is a permission or POSIX-style error reported by a server.
// Never retried.
type PosixFailure struct {
	Errno   int
	Message string
}

func (e *PosixFailure) Error() string {
	return fmt.Sprintf("server denied the requested operation: %s: %s", ErrnoName(e.Errno), e.Message)
}

// TransportFailure is a communication error. It is the only failure category
// the retry engine is allowed to retry.
type TransportFailure struct {
	Message string
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("communication error: %s", e.Message)
}

// ServerFailure signals a server-side bug. Never retried.
type ServerFailure struct {
	Message string
}

func (e *ServerFailure) Error() string {
	return fmt.Sprintf("internal server error: %s", e.Message)
}

// RedirectFailure reports that a different server instance owns the request,
// e.g. the current leader. The caller must re-resolve TargetUUID and
// re-issue; this layer never follows redirects itself.
type RedirectFailure struct {
	TargetUUID string
}

func (e *RedirectFailure) Error() string {
	return fmt.Sprintf("server redirected to the current master with UUID %s", e.TargetUUID)
}

// UnclassifiedFailure is the catch-all for error types this client does not
// recognize. Never retried.
type UnclassifiedFailure struct {
	TypeName string
	Message  string
}

func (e *UnclassifiedFailure) Error() string {
	return fmt.Sprintf("server returned an error: %s: %s", e.TypeName, e.Message)
}

// CancelledFailure reports that a call was aborted by external interruption
// before any attempt succeeded.
type CancelledFailure struct {
	Cause error
}

func (e *CancelledFailure) Error() string {
	return "operation aborted by the user"
}

func (e *CancelledFailure) Unwrap() error {
	return e.Cause
}
