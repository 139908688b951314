package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TimingInfo stores per-phase timing of one exchange.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is measured from the end of the last completed
	// connection phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime runs from request start until the body was fully read
	TotalTime time.Duration
}

// HTTPResponse is the Response produced by HTTPTransport. The body is read
// in full before Fetch returns, so JSON and Text can be called any number of
// times.
type HTTPResponse struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// StatusLine is the HTTP status line without the protocol (e.g., "200 OK")
	StatusLine string

	// Headers contains the response headers
	Headers http.Header

	// Timing contains detailed timing information
	Timing TimingInfo

	body []byte
}

// NewHTTPResponse builds a response from parts; mainly useful in tests and
// custom transports.
func NewHTTPResponse(status int, headers http.Header, body []byte) *HTTPResponse {
	if headers == nil {
		headers = http.Header{}
	}
	return &HTTPResponse{
		StatusCode: status,
		StatusLine: strconv.Itoa(status) + " " + http.StatusText(status),
		Headers:    headers,
		body:       body,
	}
}

// Status implements Response.
func (r *HTTPResponse) Status() int {
	return r.StatusCode
}

// StatusText returns the reason phrase, e.g. "Not Found".
func (r *HTTPResponse) StatusText() string {
	text := strings.TrimSpace(strings.TrimPrefix(r.StatusLine, strconv.Itoa(r.StatusCode)))
	if text == "" {
		return http.StatusText(r.StatusCode)
	}
	return text
}

// JSON unmarshals the body into v.
func (r *HTTPResponse) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// Text returns the body as a string.
func (r *HTTPResponse) Text() (string, error) {
	return string(r.body), nil
}

// Bytes returns the raw body.
func (r *HTTPResponse) Bytes() []byte {
	return r.body
}

// Header returns the first value of the named response header.
func (r *HTTPResponse) Header(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *HTTPResponse) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}
