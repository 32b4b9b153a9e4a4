package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds matching the classification every caller renders from. No
// automatic retry exists anywhere: a failed request must be restarted by the
// user.
var (
	// ErrAuthFailed means the login endpoint rejected the credentials.
	ErrAuthFailed = errors.New("invalid username or password")
	// ErrSessionExpired means a protected call answered 401. Callers tear
	// down the stored session when they see it.
	ErrSessionExpired = errors.New("session expired")
	// ErrPayloadTooLarge means the server refused the upload with 413.
	ErrPayloadTooLarge = errors.New("upload too large")
	// ErrTimeout means the request exceeded its fixed ceiling.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork means the request never got an HTTP response.
	ErrNetwork = errors.New("network error")
)

// StatusError carries any other non-2xx status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (HTTP %d)", e.Code)
}

// classifyStatus maps a non-2xx response to an error kind.
func classifyStatus(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrSessionExpired
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	default:
		return &StatusError{Code: code}
	}
}

// classifyTransport maps a transport-level failure, distinguishing timeout
// from other network errors.
func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
