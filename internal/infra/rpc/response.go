// Package rpc implements the synchronous retry engine and error
// classification for remote calls against filesystem services.
//
// A caller supplies a zero-argument attempt function issuing exactly one
// remote call; Execute drives it with bounded or unbounded retry, honors
// context cancellation between attempts, and maps server error responses
// into the typed failures of this package.
package rpc

import "fmt"

// ErrorType is the error category a server reports on a failed call.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypePosix
	ErrorTypeIO
	ErrorTypeInternalServer
	ErrorTypeRedirect
)

// String returns the wire name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypePosix:
		return "ERRNO"
	case ErrorTypeIO:
		return "IO_ERROR"
	case ErrorTypeInternalServer:
		return "INTERNAL_SERVER_ERROR"
	case ErrorTypeRedirect:
		return "REDIRECT"
	default:
		return fmt.Sprintf("ERROR_TYPE(%d)", int(t))
	}
}

// ParseErrorType maps a wire name back to its ErrorType. Unrecognized names
// yield ErrorTypeUnknown.
func ParseErrorType(s string) ErrorType {
	switch s {
	case "ERRNO", "POSIX_ERROR":
		return ErrorTypePosix
	case "IO_ERROR":
		return ErrorTypeIO
	case "INTERNAL_SERVER_ERROR":
		return ErrorTypeInternalServer
	case "REDIRECT":
		return ErrorTypeRedirect
	default:
		return ErrorTypeUnknown
	}
}

// ErrorResponse is the structured failure a remote call attempt returns.
type ErrorResponse struct {
	Type    ErrorType
	Message string

	// PosixErrno is valid only for ErrorTypePosix.
	PosixErrno int

	// RedirectTo is valid only for ErrorTypeRedirect and names the UUID of
	// the server the request should be re-issued against.
	RedirectTo string
}

// Response is the outcome of a single remote call attempt.
//
// The engine keeps at most one response live at a time: the previous
// attempt's response is released before the next attempt's is stored, and a
// failed response is released after its error details are extracted.
type Response interface {
	// HasFailed reports whether the attempt failed.
	HasFailed() bool

	// Error returns the structured failure, or nil if the attempt succeeded.
	Error() *ErrorResponse

	// Release frees any buffers held by the response. The response must not
	// be used afterwards.
	Release()
}
