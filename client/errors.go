package client

import "fmt"

// TransportError wraps network-level failures: the request never produced a
// usable HTTP response. Callers fall back to the local cache on this error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the server. The body's error code and
// message are preserved when present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// DecodeError reports a payload that does not match the expected shape. It
// names the entity and field so malformed rows are easy to trace.
type DecodeError struct {
	Entity string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("decode %s.%s: %s", e.Entity, e.Field, e.Reason)
}
