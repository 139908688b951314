package http

import (
	"context"
	"encoding/json"
	"fmt"
)

// ResponseAs selects how a successful response body is decoded.
type ResponseAs string

const (
	// ResponseJSON decodes the body as JSON. This is the default.
	ResponseJSON ResponseAs = "json"
	// ResponseText returns the body as a string.
	ResponseText ResponseAs = "text"
	// ResponseRaw returns the transport Response itself, undecoded.
	ResponseRaw ResponseAs = "response"
)

// Valid reports whether r is one of the known modes. The empty value is valid
// and means "inherit".
func (r ResponseAs) Valid() bool {
	switch r {
	case "", ResponseJSON, ResponseText, ResponseRaw:
		return true
	}
	return false
}

// StringifyFunc turns request data into a body string.
type StringifyFunc func(data any) (string, error)

// SuccessHook receives the resolved value of a successful call and returns
// the value the call resolves to instead.
type SuccessHook func(ctx context.Context, value any) (any, error)

// ErrorHook receives the error built for a non-2xx response. A non-nil
// return replaces that error; nil keeps it. The call fails either way.
type ErrorHook func(ctx context.Context, err *Error) error

// Options is one configuration layer. Dispatch merges, in order, built-in
// defaults, Defaults, the instance's Options and the per-call Options; for
// every field below a later layer overrides an earlier one, and Query and
// Headers are merged key by key.
type Options struct {
	// Query parameters, flattened into the query string in insertion order.
	Query *Query `json:"query,omitempty" yaml:"query,omitempty"`

	// Headers sent with the request. Use Remove to drop a header set by a
	// lower layer, including the built-in Accept and Content-Type.
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// ResponseAs defaults to ResponseJSON.
	ResponseAs ResponseAs `json:"responseAs,omitempty" yaml:"responseAs,omitempty"`

	// Method overrides the verb. Only honored on per-call options.
	Method string `json:"-" yaml:"-"`

	// Stringify serializes request data for POST, PUT and PATCH. Defaults to
	// JSON encoding.
	Stringify StringifyFunc `json:"-" yaml:"-"`

	// Body is a prebuilt request body (string, []byte, io.Reader or
	// *FormData). When set, the data argument is not serialized.
	Body any `json:"-" yaml:"-"`

	// Into is a pointer a successful JSON body is decoded into; the call then
	// resolves to Into itself. Only honored on per-call options.
	Into any `json:"-" yaml:"-"`

	// OnSuccess and OnError are consulted on per-call options first, then on
	// the instance's. Hooks set on Defaults are ignored.
	OnSuccess SuccessHook `json:"-" yaml:"-"`
	OnError   ErrorHook   `json:"-" yaml:"-"`
}

// NewOptions returns Options with initialized Query and Headers.
func NewOptions() *Options {
	return &Options{
		Query:   &Query{},
		Headers: Headers{},
	}
}

// Clone returns a copy with its own Query and Headers.
func (o *Options) Clone() *Options {
	if o == nil {
		return NewOptions()
	}
	c := *o
	c.Query = o.Query.Clone()
	c.Headers = o.Headers.Clone()
	if c.Headers == nil {
		c.Headers = Headers{}
	}
	return &c
}

// Validate checks the fields that can hold bad input.
func (o *Options) Validate() error {
	if !o.ResponseAs.Valid() {
		return fmt.Errorf("unknown responseAs %q", o.ResponseAs)
	}
	return nil
}

// Defaults is the process-wide configuration layer applied to every
// Instance, between the built-in defaults and instance options. It can be
// read and written at any time; each call copies what it needs while
// building the request, and the library never writes to it. Writes must not
// race with calls that are building requests.
var Defaults = NewOptions()

func jsonStringify(data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
