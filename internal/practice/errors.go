package practice

import (
	"context"
	"errors"
	"fmt"
)

// Remote-origin failures. All three are absorbed by the fallback paths.
var (
	// ErrRemoteUnavailable covers transport failures and timeouts.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrRemoteRejected covers non-success status codes.
	ErrRemoteRejected = errors.New("remote rejected request")
	// ErrRemoteMalformed covers success responses with missing or invalid fields.
	ErrRemoteMalformed = errors.New("remote response malformed")
)

// ErrInvalidInput is returned before any request is issued when a profile
// field or an answer is empty. It is the only failure surfaced to users.
var ErrInvalidInput = errors.New("invalid input")

// Kind names an error class for logging.
type Kind string

const (
	KindNone              Kind = ""
	KindRemoteUnavailable Kind = "remote_unavailable"
	KindRemoteRejected    Kind = "remote_rejected"
	KindRemoteMalformed   Kind = "remote_malformed"
	KindUserInputInvalid  Kind = "user_input_invalid"
)

// RemoteError carries the class of a remote failure together with its cause.
type RemoteError struct {
	Kind   Kind
	Status int // HTTP status for KindRemoteRejected, 0 otherwise
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{e.sentinel(), e.Err}
}

func (e *RemoteError) sentinel() error {
	switch e.Kind {
	case KindRemoteRejected:
		return ErrRemoteRejected
	case KindRemoteMalformed:
		return ErrRemoteMalformed
	default:
		return ErrRemoteUnavailable
	}
}

// Unavailable wraps err as a transport failure.
func Unavailable(err error) error {
	return &RemoteError{Kind: KindRemoteUnavailable, Err: err}
}

// Rejected wraps err as a non-success status.
func Rejected(status int, err error) error {
	return &RemoteError{Kind: KindRemoteRejected, Status: status, Err: err}
}

// Malformed wraps err as a shape failure.
func Malformed(err error) error {
	return &RemoteError{Kind: KindRemoteMalformed, Err: err}
}

// InvalidInput returns an ErrInvalidInput naming the offending field.
func InvalidInput(field string) error {
	return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, field)
}

// Classify maps err onto a Kind. Unrecognized errors and context deadlines
// count as unavailability, since they share its fallback path.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindUserInputInvalid
	case errors.Is(err, ErrRemoteRejected):
		return KindRemoteRejected
	case errors.Is(err, ErrRemoteMalformed):
		return KindRemoteMalformed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrRemoteUnavailable):
		return KindRemoteUnavailable
	}
	return KindRemoteUnavailable
}
