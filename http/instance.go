package http

import (
	"context"
	"net/http"

	"github.com/wesleyorama2/mande/logger"
)

// Instance dispatches requests relative to a fixed base URL.
//
// Calls may run concurrently. Each call snapshots Defaults and Options while
// building its request, so changing them later does not affect calls that
// already reached the transport. Options is not synchronized: writes must not
// overlap with calls that are still building.
type Instance struct {
	// Options is the instance configuration layer. It is always non-nil with
	// initialized Query and Headers.
	Options *Options

	baseURL   string
	transport Transport
	logger    logger.Lite
}

// ClientOption configures an Instance at construction.
type ClientOption func(*Instance)

// New creates an Instance.
//
// Example:
//
//	users := http.New("/api/users")
//	user, err := users.Get(ctx, 2)
func New(baseURL string, options ...ClientOption) *Instance {
	in := &Instance{
		Options: NewOptions(),
		baseURL: baseURL,
		logger:  logger.Nop{},
	}

	for _, option := range options {
		option(in)
	}

	return in
}

// WithOptions sets the instance configuration layer. The Options value is
// copied; its Query and Headers are cloned.
func WithOptions(opts *Options) ClientOption {
	return func(in *Instance) {
		in.Options = opts.Clone()
	}
}

// WithTransport injects the transport. Without it, calls use
// DefaultTransport as it is at call time.
func WithTransport(t Transport) ClientOption {
	return func(in *Instance) {
		in.transport = t
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(lg logger.Lite) ClientOption {
	return func(in *Instance) {
		if lg != nil {
			in.logger = lg
		}
	}
}

// BaseURL returns the base URL given to New.
func (in *Instance) BaseURL() string {
	return in.baseURL
}

// Clone returns a shallow copy with its own Options, header map and query,
// so the copy can be augmented without touching in.
func (in *Instance) Clone() *Instance {
	c := *in
	c.Options = in.Options.Clone()
	return &c
}

// Get sends a GET request. args is (url?, options?): url is a string or a
// number joined to the base URL, options is an *Options.
//
//	api.Get(ctx)
//	api.Get(ctx, "2")
//	api.Get(ctx, 2, &http.Options{ResponseAs: http.ResponseText})
//	api.Get(ctx, &http.Options{Query: http.NewQuery("page", 1)})
func (in *Instance) Get(ctx context.Context, args ...any) (any, error) {
	return in.call(ctx, http.MethodGet, false, args)
}

// Delete sends a DELETE request. args is (url?, options?) as for Get.
func (in *Instance) Delete(ctx context.Context, args ...any) (any, error) {
	return in.call(ctx, http.MethodDelete, false, args)
}

// Post sends a POST request. args is (url?, data?, options?): when the first
// argument is not a string or number the url is omitted.
//
//	api.Post(ctx, user)
//	api.Post(ctx, "admins", user, &http.Options{Headers: h})
func (in *Instance) Post(ctx context.Context, args ...any) (any, error) {
	return in.call(ctx, http.MethodPost, true, args)
}

// Put sends a PUT request. args is (url?, data?, options?) as for Post.
func (in *Instance) Put(ctx context.Context, args ...any) (any, error) {
	return in.call(ctx, http.MethodPut, true, args)
}

// Patch sends a PATCH request. args is (url?, data?, options?) as for Post.
func (in *Instance) Patch(ctx context.Context, args ...any) (any, error) {
	return in.call(ctx, http.MethodPatch, true, args)
}

func (in *Instance) call(ctx context.Context, method string, withBody bool, args []any) (any, error) {
	url, data, opts := normalizeArgs(withBody, args)
	return in.Request(ctx, method, url, data, opts)
}
