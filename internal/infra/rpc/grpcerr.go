package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromGRPCError converts an error returned by a gRPC call into the wire
// ErrorResponse model, so attempts issued through generated gRPC clients can
// be driven by the engine and classifier like any other transport.
//
// Returns nil for a nil error.
func FromGRPCError(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	// Context errors from the local side are transport-class: the request
	// never completed.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ErrorResponse{Type: ErrorTypeIO, Message: err.Error()}
	}

	st, ok := status.FromError(err)
	if !ok {
		return &ErrorResponse{Type: ErrorTypeIO, Message: err.Error()}
	}

	switch st.Code() {
	case codes.OK:
		return nil

	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Canceled:
		return &ErrorResponse{Type: ErrorTypeIO, Message: st.Message()}

	case codes.NotFound:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoNoEnt, Message: st.Message()}
	case codes.AlreadyExists:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoExist, Message: st.Message()}
	case codes.PermissionDenied:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoAccess, Message: st.Message()}
	case codes.Unauthenticated:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoPerm, Message: st.Message()}
	case codes.InvalidArgument, codes.OutOfRange:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoInval, Message: st.Message()}
	case codes.ResourceExhausted:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoNoSpace, Message: st.Message()}
	case codes.FailedPrecondition:
		return &ErrorResponse{Type: ErrorTypePosix, PosixErrno: ErrnoAgain, Message: st.Message()}

	case codes.Internal, codes.DataLoss, codes.Unimplemented:
		return &ErrorResponse{Type: ErrorTypeInternalServer, Message: st.Message()}

	default:
		return &ErrorResponse{Type: ErrorTypeUnknown, Message: st.Message()}
	}
}
