package output

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	mande "github.com/wesleyorama2/mande/http"
)

func TestFormatter_FormatRequest(t *testing.T) {
	req := NewRequestData("https://api.example.com/users?page=1", &mande.TransportOptions{
		Method:  "POST",
		Headers: map[string]string{"Content-Type": "application/json", "Accept": "application/json"},
		Body:    `{"name":"Eduardo"}`,
	})

	plain := NewFormatter(false, true).FormatRequest(req)
	if plain != "▶ REQUEST: POST https://api.example.com/users?page=1\n" {
		t.Errorf("Unexpected request line %q", plain)
	}

	verbose := NewFormatter(true, true).FormatRequest(req)
	for _, want := range []string{
		"  Headers:\n    Accept: application/json\n    Content-Type: application/json\n",
		"  Body: {\n  \"name\": \"Eduardo\"\n}",
	} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Expected verbose output to contain %q, got:\n%s", want, verbose)
		}
	}
}

func TestFormatter_FormatResponse(t *testing.T) {
	resp := mande.NewHTTPResponse(404, nil, nil)
	resp.Headers.Set("X-Request-Id", "abc")
	resp.Timing.TotalTime = 12 * time.Millisecond

	data := NewResponseData(resp)
	if data.Status != "404 Not Found" {
		t.Errorf("Expected status 404 Not Found, got %s", data.Status)
	}

	plain := NewFormatter(false, true).FormatResponse(data)
	if plain != "◀ RESPONSE: 404 Not Found (12ms)\n" {
		t.Errorf("Unexpected response line %q", plain)
	}

	verbose := NewFormatter(true, true).FormatResponse(data)
	if !strings.Contains(verbose, "Total:              12ms") {
		t.Errorf("Expected timing in verbose output, got:\n%s", verbose)
	}
	if !strings.Contains(verbose, "X-Request-Id: abc") {
		t.Errorf("Expected headers in verbose output, got:\n%s", verbose)
	}
}

type textResponse struct{ status int }

func (r textResponse) Status() int           { return r.status }
func (r textResponse) StatusText() string    { return "OK" }
func (r textResponse) JSON(v any) error      { return errors.New("no json") }
func (r textResponse) Text() (string, error) { return "plain", nil }

func TestFormatter_FormatResponseWithoutTiming(t *testing.T) {
	got := NewFormatter(true, true).FormatResponse(NewResponseData(textResponse{status: 200}))
	if got != "◀ RESPONSE: 200 OK\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestFormatter_FormatExchange(t *testing.T) {
	f := NewFormatter(false, true)

	tests := []struct {
		name string
		ex   *Exchange
		want string
	}{
		{
			name: "object result",
			ex:   &Exchange{Result: map[string]any{"id": 2}},
			want: "{\n  \"id\": 2\n}\n",
		},
		{
			name: "text result",
			ex:   &Exchange{Result: "hello"},
			want: "hello\n",
		},
		{
			name: "nil result prints nothing",
			ex:   &Exchange{},
			want: "",
		},
		{
			name: "extracted values win over result",
			ex:   &Exchange{Result: "ignored", Extracted: []string{"a", "b"}},
			want: "a\nb\n",
		},
		{
			name: "application error",
			ex: &Exchange{Error: NewErrorData(&mande.Error{
				Message:  "Not Found",
				Response: mande.NewHTTPResponse(404, nil, nil),
				Body:     map[string]any{"message": "missing"},
			})},
			want: "✗ ERROR: 404 Not Found\n{\n  \"message\": \"missing\"\n}\n",
		},
		{
			name: "transport error",
			ex:   &Exchange{Error: NewErrorData(fmt.Errorf("dial: %w", errors.New("refused")))},
			want: "✗ ERROR: dial: refused\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatExchange(tt.ex); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatter_FormatLatency(t *testing.T) {
	f := NewFormatter(false, true)

	got := f.FormatLatency(&LatencySummary{})
	if got != "Latency: 0 requests, 0 failed\n" {
		t.Errorf("Unexpected output %q", got)
	}

	got = f.FormatLatency(&LatencySummary{Count: 3, Errors: 1, Min: time.Millisecond, P99: 3 * time.Millisecond})
	if !strings.Contains(got, "3 requests, 1 failed") || !strings.Contains(got, "p99 3ms") {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestNewRequestData_Bodies(t *testing.T) {
	tests := []struct {
		body any
		want any
	}{
		{body: nil, want: nil},
		{body: "not json", want: "not json"},
		{body: []byte(`[1]`), want: []any{1.0}},
		{body: mande.NewFormData().Append("a", "b"), want: "<multipart form, 1 parts>"},
		{body: strings.NewReader("x"), want: "<stream>"},
	}

	for _, tt := range tests {
		got := NewRequestData("/x", &mande.TransportOptions{Method: "POST", Body: tt.body}).Body
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("Body %T: expected %v, got %v", tt.body, tt.want, got)
		}
	}
}

func TestResultValue(t *testing.T) {
	if got := ResultValue(mande.NewHTTPResponse(200, nil, []byte(`{"a":1}`))); fmt.Sprint(got) != "map[a:1]" {
		t.Errorf("Unexpected value %v", got)
	}
	if got := ResultValue("s"); got != "s" {
		t.Errorf("Unexpected value %v", got)
	}
}

func TestNewErrorData_RawBodyIsDropped(t *testing.T) {
	resp := mande.NewHTTPResponse(500, nil, nil)
	data := NewErrorData(&mande.Error{Message: "Internal Server Error", Response: resp, Body: resp})
	if data.Body != nil {
		t.Errorf("Expected raw response body to be dropped, got %v", data.Body)
	}
	if data.StatusCode != 500 {
		t.Errorf("Expected status 500, got %d", data.StatusCode)
	}
}
