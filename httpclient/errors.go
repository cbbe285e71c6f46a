package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoResponse is returned when every attempt failed with a transient
	// network error. It marks the absence of a response, not a failed request:
	// callers should test for it with errors.Is.
	ErrNoResponse = errors.New("request failed after maximum retries")

	// ErrEmptyQueue is returned by TaskQueue.Dequeue on an empty queue.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrMissingKey is wrapped by MissingKeyError.
	ErrMissingKey = errors.New("key not found")

	// ErrReportInput is returned when a report is requested without data.
	ErrReportInput = errors.New("no data to report")

	// ErrUnsupportedMethod is wrapped by UnsupportedMethodError.
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// MissingKeyError reports a lookup of a key that is not present.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

// UnsupportedMethodError is returned for any method outside AllowedMethods.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	allowed := make([]string, len(AllowedMethods))
	for i, m := range AllowedMethods {
		allowed[i] = string(m)
	}
	return fmt.Sprintf("unsupported method %q: allowed methods are %s",
		e.Method, strings.Join(allowed, ", "))
}

func (e *UnsupportedMethodError) Unwrap() error {
	return ErrUnsupportedMethod
}
