package mailtm

import (
	"errors"
	"fmt"
	"time"

	"github.com/mailtm/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnauthorized is returned when the bearer token is missing, invalid or expired.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrNotFound is returned when a resource does not exist, including an
	// account that has been deleted.
	ErrNotFound = apierrors.ErrNotFound

	// ErrConflict is returned when a resource already exists.
	ErrConflict = apierrors.ErrConflict

	// ErrUnprocessable is returned when the server rejects a request body,
	// for example an address that is already taken.
	ErrUnprocessable = apierrors.ErrUnprocessable

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrNotImplemented is returned by operations the client does not support.
	ErrNotImplemented = apierrors.ErrNotImplemented

	// ErrMissingToken is returned when an authenticated operation is called
	// with a User that has not logged in.
	ErrMissingToken = apierrors.ErrMissingToken
)

// Error is implemented by the three failure kinds every network operation
// can return: *StatusError, *TransportError and *DecodeError.
type Error interface {
	error
	MailTMError() // marker method
}

// StatusError is returned when the server answers with a non-2xx status.
// Body holds the response body verbatim.
type StatusError = apierrors.StatusError

// TransportError is returned when a request could not be built or sent.
type TransportError = apierrors.TransportError

// DecodeError is returned when a 2xx body does not parse into the expected
// shape. Body holds the raw response.
type DecodeError = apierrors.DecodeError

// Kind classifies an error returned by this package.
type Kind int

const (
	// KindUnknown is any error that is not one of the kinds below,
	// including nil.
	KindUnknown Kind = iota
	// KindTransport is a *TransportError.
	KindTransport
	// KindStatus is a *StatusError.
	KindStatus
	// KindDecode is a *DecodeError.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// KindOf reports which failure kind err carries.
func KindOf(err error) Kind {
	var (
		transportErr *TransportError
		statusErr    *StatusError
		decodeErr    *DecodeError
	)
	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &decodeErr):
		return KindDecode
	default:
		return KindUnknown
	}
}

// TimeoutError is returned when WaitForMessage gives up.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// Unwrap returns the underlying context error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// MailTMError implements the Error interface.
func (e *TimeoutError) MailTMError() {}
