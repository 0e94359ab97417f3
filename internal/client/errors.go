package client

import (
	"errors"
	"fmt"
)

// ErrNetwork matches every transport failure via errors.Is.
var ErrNetwork = errors.New("network error")

// NetworkError reports a request that never produced an HTTP response:
// timeouts, DNS failures, refused connections and cancelled contexts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// APIError carries a server-provided failure message verbatim. It is used both for
// non-2xx responses with a {success, message} body and for logins answered with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// StatusError reports a non-2xx response whose body had no recognizable message.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: status %d", e.StatusCode)
}

// DecodeError reports a 2xx response whose body could not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0 when none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
