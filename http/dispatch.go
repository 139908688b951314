package http

import (
	"context"
	"fmt"
	"strings"
)

// Request is the canonical form every verb method funnels into. url is
// joined to the base URL, data is serialized for POST, PUT and PATCH, opts
// is the per-call layer and may be nil.
//
// On a 2xx status the result is the decoded body (nil for 204), a string in
// text mode, or the Response itself in response mode. Other statuses return
// an *Error. Transport failures are returned as the transport reported them.
func (in *Instance) Request(ctx context.Context, method, url string, data any, opts *Options) (any, error) {
	withBody := hasBody(method)
	// data is only sent when no layer supplies a prebuilt body.
	body := layeredBody(Defaults, in.Options, opts)
	multipart := isFormData(body) || (body == nil && withBody && isFormData(data))

	req := mergeOptions(method, multipart, Defaults, in.Options, opts)
	req.url = JoinURL(in.baseURL, url) + mergeQuery(Defaults, in.Options, opts).String()

	if withBody && truthy(data) && req.body == nil {
		if fd, ok := data.(*FormData); ok {
			req.body = fd
		} else {
			s, err := req.stringify(data)
			if err != nil {
				return nil, fmt.Errorf("stringify %s %s body: %w", method, req.url, err)
			}
			req.body = s
		}
	}

	transport := in.transport
	if transport == nil {
		transport = DefaultTransport
	}
	if transport == nil {
		return nil, ErrNoTransport
	}

	in.logger.Debugw("dispatch", "method", req.method, "url", req.url)

	resp, err := transport.Fetch(ctx, req.url, &TransportOptions{
		Method:  req.method,
		Headers: req.headers,
		Body:    req.body,
	})
	if err != nil {
		in.logger.Warnw("transport failed", "method", req.method, "url", req.url, "error", err)
		return nil, err
	}

	status := resp.Status()
	in.logger.Debugw("response", "method", req.method, "url", req.url, "status", status)

	if status >= 200 && status < 300 {
		return req.resolve(ctx, resp)
	}
	return nil, req.reject(ctx, resp)
}

func (r *request) resolve(ctx context.Context, resp Response) (any, error) {
	var value any
	switch {
	case r.responseAs == ResponseRaw:
		value = resp
	case resp.Status() == 204:
	case r.responseAs == ResponseJSON && r.into != nil:
		if err := resp.JSON(r.into); err == nil {
			value = r.into
		}
	default:
		value = parseBody(resp, r.responseAs)
	}

	if r.onSuccess != nil {
		return r.onSuccess(ctx, value)
	}
	return value, nil
}

func (r *request) reject(ctx context.Context, resp Response) error {
	e := &Error{
		Message:  resp.StatusText(),
		Response: resp,
	}
	if r.responseAs == ResponseRaw {
		e.Body = resp
	} else {
		e.Body = parseBody(resp, r.responseAs)
	}

	if r.onError != nil {
		if replaced := r.onError(ctx, e); replaced != nil {
			return replaced
		}
	}
	return e
}

// parseBody decodes according to mode. Failures yield nil.
func parseBody(resp Response, mode ResponseAs) any {
	if mode == ResponseText {
		s, err := resp.Text()
		if err != nil {
			return nil
		}
		return s
	}
	var v any
	if err := resp.JSON(&v); err != nil {
		return nil
	}
	return v
}

func hasBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

func isFormData(v any) bool {
	fd, ok := v.(*FormData)
	return ok && fd != nil
}
