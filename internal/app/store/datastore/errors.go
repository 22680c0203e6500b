package datastore

import (
	"errors"
	"fmt"
)

// ErrFailed is the single failure signal for remote calls. Both
// TransportError and APIError match it with errors.Is.
var ErrFailed = errors.New("data store call failed")

// TransportError is a network or connection failure (including timeouts).
type TransportError struct {
	Op    string // select, insert, update, delete, ping
	Table string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("data store %s %s: transport: %v", e.Op, e.Table, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrFailed }

// APIError is a non-2xx answer from the backend. Body carries the response
// text for diagnostics.
type APIError struct {
	Op     string
	Table  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data store %s %s: status %d: %s", e.Op, e.Table, e.Status, e.Body)
}

func (e *APIError) Is(target error) bool { return target == ErrFailed }
