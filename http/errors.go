package http

import "errors"

// ErrNoTransport is returned, before anything is sent, when an instance has
// no injected transport and DefaultTransport is nil.
var ErrNoTransport = errors.New("mande: no transport available, inject one with WithTransport or set DefaultTransport")

// Error is returned for responses whose status is outside [200, 300).
type Error struct {
	// Message is the response status text.
	Message string
	// Response is the raw transport response.
	Response Response
	// Body is the decoded error payload, or nil when it was empty or could
	// not be decoded.
	Body any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the response status, or 0 without a response.
func (e *Error) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.Status()
}

// IsStatus reports whether err is an *Error carrying the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode() == status
}
