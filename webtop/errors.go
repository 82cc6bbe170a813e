// ABOUTME: Error types returned by the portal client
// ABOUTME: LoginError covers authentication failures, RequestError failed API calls

package webtop

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is wrapped by the LoginError returned when no session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// LoginError reports any failure to authenticate.
type LoginError struct {
	Message string
	// Description and ID carry the portal's errorDescription and errorId when present.
	Description string
	ID          string
	StatusCode  int
	Err         error
}

func (e *LoginError) Error() string {
	msg := e.Message
	if e.Description != "" || e.ID != "" {
		msg += fmt.Sprintf(" (errorDescription=%q, errorId=%q)", e.Description, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// RequestError reports an authenticated call answered with status >= 400.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Path, e.StatusCode, e.Body)
}
