package http

import (
	"net/http"
	"strings"
)

// Wrapped binds a function to an Instance. Call runs it against the shared
// instance; CallAugmented runs it against a clone that augment was allowed to
// modify first, which is how per-request headers such as forwarded cookies are
// injected without mutating the shared instance.
type Wrapped[A, R any] struct {
	api *Instance
	fn  func(api *Instance, args A) R
}

// Wrap binds fn to api.
//
// Example:
//
//	getUser := http.Wrap(users, func(api *http.Instance, id int) (any, error) {
//	    return api.Get(ctx, id)
//	})
//	user, err := getUser.CallAugmented(http.ForwardHeaders(r.Header), 2)
func Wrap[A, R any](api *Instance, fn func(api *Instance, args A) R) *Wrapped[A, R] {
	return &Wrapped[A, R]{api: api, fn: fn}
}

// Call runs the function against the shared instance.
func (w *Wrapped[A, R]) Call(args A) R {
	return w.fn(w.api, args)
}

// CallAugmented clones the instance, lets augment modify the clone and runs
// the function against it. A nil augment behaves like Call on a clone.
func (w *Wrapped[A, R]) CallAugmented(augment func(api *Instance), args A) R {
	api := w.api.Clone()
	if augment != nil {
		augment(api)
	}
	return w.fn(api, args)
}

// DefaultProxyHeadersIgnore lists the incoming headers ForwardHeaders never
// copies.
var DefaultProxyHeadersIgnore = []string{
	"accept",
	"host",
	"cf-ray",
	"cf-connecting-ip",
	"content-length",
	"content-md5",
	"content-type",
}

// ForwardHeaders returns an augmentation that proxies an incoming server
// request's headers (cookies included) to outgoing calls. Any Cookie already
// on the instance is cleared first, headers named in ignore are skipped
// (DefaultProxyHeadersIgnore when ignore is empty). Accept-Encoding is never
// forwarded: net/http only decompresses responses transparently when it
// negotiated the encoding itself.
func ForwardHeaders(src http.Header, ignore ...string) func(api *Instance) {
	if len(ignore) == 0 {
		ignore = DefaultProxyHeadersIgnore
	}
	skip := map[string]struct{}{"Accept-Encoding": {}}
	for _, name := range ignore {
		skip[CanonicalKey(strings.TrimSpace(name))] = struct{}{}
	}

	return func(api *Instance) {
		if api.Options == nil {
			api.Options = NewOptions()
		}
		if api.Options.Headers == nil {
			api.Options.Headers = Headers{}
		}
		api.Options.Headers.Remove("Cookie")
		for name, values := range src {
			key := CanonicalKey(name)
			if _, ok := skip[key]; ok || len(values) == 0 {
				continue
			}
			sep := ", "
			if key == "Cookie" {
				sep = "; "
			}
			api.Options.Headers.Set(key, strings.Join(values, sep))
		}
	}
}
