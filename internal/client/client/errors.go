package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the backend could not be reached or timed out.
	ErrUnavailable = errors.New("server unavailable")
	// ErrProtocol means a response body did not have the expected shape.
	ErrProtocol = errors.New("invalid response from server")
	// ErrUnauthenticated means the stored token is missing or was refused.
	// The stored credential has been cleared by the time it is returned.
	ErrUnauthenticated = errors.New("session expired, please login again")
	// ErrInvalidCredentials means the server rejected an email/password pair.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidCode means a password reset code was wrong or expired.
	ErrInvalidCode = errors.New("invalid or expired verification code")
	// ErrRejected is the generic kind of any other non-2xx response.
	ErrRejected = errors.New("request rejected")
)

// APIError is a non-2xx response. Detail carries the server's message when
// the body had one. Kind is the sentinel it matches with errors.Is.
type APIError struct {
	Status int
	Detail string
	Kind   error
}

func (e *APIError) Error() string {
	kind := e.Unwrap()
	if e.Detail == "" {
		return fmt.Sprintf("%v (status %d)", kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", kind, e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	if e.Kind == nil {
		return ErrRejected
	}
	return e.Kind
}

// Detail returns the server-provided message of err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
