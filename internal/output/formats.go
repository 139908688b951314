package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	mande "github.com/wesleyorama2/mande/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs one JSON document per command
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs one YAML document per command
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q (must be text, json or yaml)", s)
}

// FormatProvider renders what a command did. FormatRequest and
// FormatResponse are called while requests happen and may return "" for
// formats that only emit a final document; FormatExchange renders the
// outcome.
type FormatProvider interface {
	FormatRequest(req *RequestData) string
	FormatResponse(resp *ResponseData) string
	FormatExchange(ex *Exchange) string
}

// RequestData represents the structured data of a dispatched request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      any               `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of a transport response
type ResponseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Status     string            `json:"status" yaml:"status"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// ErrorData describes a failed call.
type ErrorData struct {
	Message    string `json:"message" yaml:"message"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Body       any    `json:"body,omitempty" yaml:"body,omitempty"`
}

// Exchange is the outcome of one command.
type Exchange struct {
	Requests  []*RequestData  `json:"requests,omitempty" yaml:"requests,omitempty"`
	Responses []*ResponseData `json:"responses,omitempty" yaml:"responses,omitempty"`
	Result    any             `json:"result,omitempty" yaml:"result,omitempty"`
	Extracted []string        `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Error     *ErrorData      `json:"error,omitempty" yaml:"error,omitempty"`
	Latency   *LatencySummary `json:"latency,omitempty" yaml:"latency,omitempty"`
}

// NewRequestData captures what is handed to the transport.
func NewRequestData(url string, opts *mande.TransportOptions) *RequestData {
	data := &RequestData{
		Method:    opts.Method,
		URL:       url,
		Headers:   opts.Headers,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	switch body := opts.Body.(type) {
	case nil:
	case string:
		data.Body = decodeMaybeJSON(body)
	case []byte:
		data.Body = decodeMaybeJSON(string(body))
	case *mande.FormData:
		data.Body = fmt.Sprintf("<multipart form, %d parts>", body.Len())
	case io.Reader:
		data.Body = "<stream>"
	default:
		data.Body = body
	}
	return data
}

// NewResponseData captures a transport response. Headers and timing are
// only known for *mande.HTTPResponse.
func NewResponseData(resp mande.Response) *ResponseData {
	data := &ResponseData{
		StatusCode: resp.Status(),
		Status:     fmt.Sprintf("%d %s", resp.Status(), resp.StatusText()),
	}
	if r, ok := resp.(*mande.HTTPResponse); ok {
		data.Headers = make(map[string]string, len(r.Headers))
		for key := range r.Headers {
			data.Headers[key] = r.Headers.Get(key)
		}
		data.Timing = &TimingData{
			DNSLookup:       r.Timing.DNSLookupTime.Milliseconds(),
			TCPConnection:   r.Timing.TCPConnectTime.Milliseconds(),
			TLSHandshake:    r.Timing.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: r.Timing.TimeToFirstByte.Milliseconds(),
			ContentTransfer: r.Timing.ContentTransferTime.Milliseconds(),
			Total:           r.Timing.TotalTime.Milliseconds(),
		}
	}
	return data
}

// NewErrorData describes err; *mande.Error values keep status and body.
func NewErrorData(err error) *ErrorData {
	var apiErr *mande.Error
	if errors.As(err, &apiErr) {
		data := &ErrorData{
			Message:    apiErr.Message,
			StatusCode: apiErr.StatusCode(),
			Body:       apiErr.Body,
		}
		if _, raw := apiErr.Body.(mande.Response); raw {
			data.Body = nil
		}
		return data
	}
	return &ErrorData{Message: err.Error()}
}

// ResultValue makes a dispatcher result printable: a raw Response is turned
// into its text body.
func ResultValue(v any) any {
	if resp, ok := v.(mande.Response); ok {
		text, err := resp.Text()
		if err != nil {
			return nil
		}
		return decodeMaybeJSON(text)
	}
	return v
}

func decodeMaybeJSON(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSONFormatter formats the exchange as one JSON document
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest implements FormatProvider; requests are part of the final document.
func (f *JSONFormatter) FormatRequest(req *RequestData) string { return "" }

// FormatResponse implements FormatProvider.
func (f *JSONFormatter) FormatResponse(resp *ResponseData) string { return "" }

// FormatExchange formats the outcome as JSON
func (f *JSONFormatter) FormatExchange(ex *Exchange) string {
	out := trim(ex, f.Verbose)

	var data []byte
	var err error
	if f.Pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":{"message":%q}}`, err.Error()) + "\n"
	}
	return string(data) + "\n"
}

// YAMLFormatter formats the exchange as one YAML document
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest implements FormatProvider.
func (f *YAMLFormatter) FormatRequest(req *RequestData) string { return "" }

// FormatResponse implements FormatProvider.
func (f *YAMLFormatter) FormatResponse(resp *ResponseData) string { return "" }

// FormatExchange formats the outcome as YAML
func (f *YAMLFormatter) FormatExchange(ex *Exchange) string {
	data, err := yaml.Marshal(trim(ex, f.Verbose))
	if err != nil {
		return fmt.Sprintf("error:\n  message: %q\n", err.Error())
	}
	return string(data)
}

// trim drops the request and response records unless verbose.
func trim(ex *Exchange, verbose bool) *Exchange {
	if verbose {
		return ex
	}
	out := *ex
	out.Requests = nil
	out.Responses = nil
	return &out
}

// GetFormatter returns a formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
