package http

import "context"

// Response is what a Transport returns once the status line of a response
// is in. JSON and Text decode the body; implementations decide whether the
// body can be decoded more than once.
type Response interface {
	Status() int
	StatusText() string
	JSON(v any) error
	Text() (string, error)
}

// TransportOptions is the fully merged request handed to a Transport.
type TransportOptions struct {
	Method string
	// Headers holds the final headers, canonical keys, removals applied.
	Headers map[string]string
	// Body is nil, a string produced by Stringify, or whatever prebuilt body
	// or *FormData the caller supplied.
	Body any
}

// Transport performs the network call. Network-level failures are returned
// as errors; any response, whatever its status, is returned as a Response.
// Cancellation is carried by ctx.
type Transport interface {
	Fetch(ctx context.Context, url string, opts *TransportOptions) (Response, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, url string, opts *TransportOptions) (Response, error)

// Fetch implements Transport.
func (f TransportFunc) Fetch(ctx context.Context, url string, opts *TransportOptions) (Response, error) {
	return f(ctx, url, opts)
}

// DefaultTransport is the ambient transport used by instances created
// without WithTransport. Setting it to nil makes such instances fail with
// ErrNoTransport.
var DefaultTransport Transport = NewHTTPTransport()
