package hubclient

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRejected means the hub refused the message as invalid.
	ErrRejected = errors.New("hubclient: rejected by hub")
	ErrNotFound = errors.New("hubclient: not found")
	// ErrUnavailable means the hub could not be reached. No retry is attempted.
	ErrUnavailable = errors.New("hubclient: hub unavailable")
)

// mapRPC turns gRPC statuses into package sentinels, keeping the hub's
// message in the error text.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return err
	}
}
