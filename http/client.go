package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"
)

// Middleware wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// HTTPTransport is the net/http Transport. It is safe for concurrent use.
type HTTPTransport struct {
	httpClient  *http.Client
	middlewares []Middleware
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// NewHTTPTransport creates a transport over its own *http.Client. The client
// has no timeout; deadlines come from the per-call context.
//
// Example:
//
//	t := http.NewHTTPTransport(
//	    http.WithMiddlewares(authMiddleware),
//	)
//	api := http.New("https://api.example.com/users", http.WithTransport(t))
func NewHTTPTransport(options ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{},
	}

	for _, option := range options {
		option(t)
	}

	if len(t.middlewares) > 0 {
		base := t.httpClient.Transport
		if base == nil {
			base = cloneDefaultTransport()
		}
		c := *t.httpClient
		c.Transport = chain(base, t.middlewares...)
		t.httpClient = &c
	}

	return t
}

// WithHTTPClient sets the *http.Client used to send requests.
func WithHTTPClient(httpClient *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.httpClient = httpClient
	}
}

// WithMiddlewares appends RoundTripper middlewares. WithMiddlewares(a, b)
// sends requests through a, then b, then the base transport.
func WithMiddlewares(mws ...Middleware) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.middlewares = append(t.middlewares, mws...)
	}
}

func chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		base = mws[i](base)
	}
	return base
}

func cloneDefaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok && t != nil {
		return t.Clone()
	}
	return http.DefaultTransport
}

// Fetch implements Transport. Errors from net/http are returned untouched.
func (t *HTTPTransport) Fetch(ctx context.Context, url string, opts *TransportOptions) (Response, error) {
	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, opts.Method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	// lastPhaseEnd is where time to first byte is measured from
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				now := time.Now()
				timing.TCPConnectTime = now.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = now
			}
		},
		TLSHandshakeStart: func() {
			if connectDone || dnsDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				now := time.Now()
				timing.TLSHandshakeTime = now.Sub(tlsHandshakeStart)
				lastPhaseEnd = now
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	transferStart := time.Now()
	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	timing.ContentTransferTime = time.Since(transferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return &HTTPResponse{
		StatusCode: httpResp.StatusCode,
		StatusLine: httpResp.Status,
		Headers:    httpResp.Header,
		Timing:     timing,
		body:       bodyBytes,
	}, nil
}

// encodeBody turns a TransportOptions body into a reader. Only *FormData
// carries its own content type.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case *FormData:
		return v.Encode()
	case io.Reader:
		return v, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported body type %T", body)
	}
}
