package listview

import (
	"fmt"
	"net/http"

	"github.com/friendsofgo/errors"
)

var (
	// ErrNetworkFailure marks transport-level failures: unreachable backend,
	// connection reset, timeout.
	ErrNetworkFailure = errors.New("network failure")

	// ErrDecodeFailure marks a response that matched neither the bare nor the
	// enveloped shape. Normalize absorbs it into an empty page.
	ErrDecodeFailure = errors.New("decode failure")
)

// FetchRejectedError is returned when the backend answers a list request with
// a non-2xx status, e.g. a filter combination rejected with 400.
type FetchRejectedError struct {
	StatusCode int
	Body       string
}

func (e *FetchRejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("list request rejected: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("list request rejected: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsBadRequest reports whether the rejection was a 400.
func (e *FetchRejectedError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

// NetworkFailure wraps err so that errors.Is(err, ErrNetworkFailure) holds.
func NetworkFailure(err error) error {
	if err == nil {
		return nil
	}
	return &wrappedError{sentinel: ErrNetworkFailure, cause: err}
}

// IsNetworkFailure reports whether err is a transport-level failure.
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}

// AsFetchRejected extracts a FetchRejectedError from err.
func AsFetchRejected(err error) (*FetchRejectedError, bool) {
	var rejected *FetchRejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}

// wrappedError ties a cause to one of the sentinels above.
type wrappedError struct {
	sentinel error
	cause    error
}

func (e *wrappedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *wrappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Cause returns the underlying cause, as used by errors.Cause.
func (e *wrappedError) Cause() error {
	return e.cause
}
