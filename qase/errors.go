package qase

import "fmt"

// RemoteAPIError is a failure reported by the service (status false).
type RemoteAPIError struct {
	Op      string
	Message string
}

func newAPIError(op, msg string) *RemoteAPIError {
	if msg == "" {
		msg = "unknown error"
	}
	return &RemoteAPIError{Op: op, Message: msg}
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("qase %s: api error: %s", e.Op, e.Message)
}

// RemoteProtocolError is a response that does not fit the expected envelope.
type RemoteProtocolError struct {
	Op     string
	Reason string
	Err    error
}

func (e *RemoteProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("qase %s: protocol error: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("qase %s: protocol error: %s", e.Op, e.Reason)
}

func (e *RemoteProtocolError) Unwrap() error { return e.Err }

// StatusError is returned by HTTPTransport for a non-2xx response whose body
// is not a JSON envelope.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}
