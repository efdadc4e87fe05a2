package backend

import (
	"errors"
	"fmt"
)

var errMissingText = errors.New(`missing string field "text"`)

// FetchError is a network failure or non-success status on a poll.
type FetchError struct {
	URL    string
	Status int // 0 when the request never got a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a poll response that is not {"text": <string>}.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SubmitError is a command that was not acknowledged with "Success".
type SubmitError struct {
	URL     string
	Command string
	Body    string // response body, when one was read
	Err     error  // transport failure, if any
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("submit %q: not acknowledged (got %q)", e.Command, e.Body)
}

func (e *SubmitError) Unwrap() error { return e.Err }
