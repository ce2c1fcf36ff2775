package wda

import (
	"errors"
	"fmt"
)

var (
	// ErrRetryLimit is returned when a single call keeps hitting expired
	// sessions after the configured number of reconnects
	ErrRetryLimit = errors.New("session recovery limit reached")

	ErrUnknownOrientation = errors.New("unknown orientation")
	ErrDeviceSizeUnknown  = errors.New("device size has not been fetched")
	ErrNoTouch            = errors.New("no pending touch")

	// ErrGestureDropped means the size fetch failed and the session was
	// reconnected instead of performing the gesture
	ErrGestureDropped = errors.New("gesture not performed, session reconnected")
)

// ConnectError means the status probe failed or returned an unexpected body
type ConnectError struct {
	BaseURL string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to WDA at %s: %v", e.BaseURL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SessionExpiredError is reported when WDA answers 404 on a session-scoped path
type SessionExpiredError struct {
	SessionID string
	Path      string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session %s expired (path %s)", e.SessionID, e.Path)
}

// BackendUnreachableError is a transport-level failure: nothing answered
type BackendUnreachableError struct {
	Method string
	Path   string
	Err    error
}

func (e *BackendUnreachableError) Error() string {
	return fmt.Sprintf("WDA unreachable on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *BackendUnreachableError) Unwrap() error { return e.Err }

// RequestError covers every other failed HTTP exchange
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

// UnrecoverableError wraps the reconnect failure hit while recovering an
// expired session
type UnrecoverableError struct {
	Err error
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("session recovery failed: %v", e.Err)
}

func (e *UnrecoverableError) Unwrap() error { return e.Err }

type ElementNotFoundError struct {
	Label string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: label=%s", e.Label)
}
