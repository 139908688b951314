package http

import (
	"context"
	"sync"
)

// recordingTransport answers every Fetch with a canned response and keeps
// what it was called with.
type recordingTransport struct {
	mu    sync.Mutex
	calls []recordedCall

	status int
	body   string
	err    error
}

type recordedCall struct {
	url  string
	opts TransportOptions
}

func respond(status int, body string) *recordingTransport {
	return &recordingTransport{status: status, body: body}
}

func (t *recordingTransport) Fetch(ctx context.Context, url string, opts *TransportOptions) (Response, error) {
	t.mu.Lock()
	t.calls = append(t.calls, recordedCall{url: url, opts: *opts})
	t.mu.Unlock()

	if t.err != nil {
		return nil, t.err
	}
	return NewHTTPResponse(t.status, nil, []byte(t.body)), nil
}

func (t *recordingTransport) last() recordedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[len(t.calls)-1]
}

func (t *recordingTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// resetDefaults restores the process-wide layer after a test touched it.
func resetDefaults() {
	Defaults = NewOptions()
}
