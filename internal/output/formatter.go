package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Formatter is responsible for formatting requests and results in text format
type Formatter struct {
	Verbose bool
	NoColor bool

	colors *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  NewColorScheme(noColor),
	}
}

// FormatRequest formats a request as it is handed to the transport. Headers
// and body are only shown when verbose.
func (f *Formatter) FormatRequest(req *RequestData) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(req.Method), f.colors.URL.Sprint(req.URL)))

	if !f.Verbose {
		return buf.String()
	}

	if len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), req.Headers[key]))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		buf.WriteString(formatValue(req.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats the status line of a response, with timing and
// headers when verbose.
func (f *Formatter) FormatResponse(resp *ResponseData) string {
	var buf strings.Builder

	status := f.colors.Status(resp.StatusCode).Sprint(resp.Status)
	if resp.Timing != nil {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n", status, resp.Timing.Total))
	} else {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s\n", status))
	}

	if !f.Verbose {
		return buf.String()
	}

	if t := resp.Timing; t != nil {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", t.DNSLookup))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", t.TCPConnection))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", t.TLSHandshake))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", t.TimeToFirstByte))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", t.ContentTransfer))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", t.Total))
	}

	if len(resp.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(resp.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), resp.Headers[key]))
		}
	}

	return buf.String()
}

// FormatExchange formats the outcome of a command: the resolved value (or
// the extracted values), the error, and the latency summary of repeated runs.
func (f *Formatter) FormatExchange(ex *Exchange) string {
	var buf strings.Builder

	if ex.Error != nil {
		buf.WriteString(fmt.Sprintf("%s %s", ErrorIcon(f.NoColor), f.colors.Error.Sprint("ERROR: ")))
		if ex.Error.StatusCode != 0 {
			buf.WriteString(f.colors.Status(ex.Error.StatusCode).Sprintf("%d %s", ex.Error.StatusCode, ex.Error.Message))
		} else {
			buf.WriteString(ex.Error.Message)
		}
		buf.WriteString("\n")
		if ex.Error.Body != nil {
			buf.WriteString(formatValue(ex.Error.Body))
			buf.WriteString("\n")
		}
	} else if len(ex.Extracted) > 0 {
		for _, v := range ex.Extracted {
			buf.WriteString(v)
			buf.WriteString("\n")
		}
	} else if ex.Result != nil {
		buf.WriteString(formatValue(ex.Result))
		buf.WriteString("\n")
	}

	if ex.Latency != nil {
		buf.WriteString(f.FormatLatency(ex.Latency))
	}

	return buf.String()
}

// FormatLatency formats a latency summary
func (f *Formatter) FormatLatency(s *LatencySummary) string {
	var buf strings.Builder
	buf.WriteString(f.colors.Label.Sprint("Latency:"))
	buf.WriteString(fmt.Sprintf(" %d requests, %d failed\n", s.Count, s.Errors))
	if s.Count == 0 {
		return buf.String()
	}
	buf.WriteString(fmt.Sprintf("  min %s  mean %s  max %s\n", s.Min, s.Mean, s.Max))
	buf.WriteString(fmt.Sprintf("  p50 %s  p90 %s  p99 %s\n", s.P50, s.P90, s.P99))
	return buf.String()
}

// formatValue renders strings as is and everything else as indented JSON
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return formatJSONString(string(data))
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
