package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	mande "github.com/wesleyorama2/mande/http"
	"github.com/wesleyorama2/mande/internal/output"
)

// printingTransport prints every exchange it forwards to next and records it
// in the command's Exchange. After silence it only forwards.
type printingTransport struct {
	next      mande.Transport
	formatter output.FormatProvider
	out       io.Writer

	mu       sync.Mutex
	quiet    bool
	exchange *output.Exchange
}

func newPrintingTransport(next mande.Transport, formatter output.FormatProvider, out io.Writer, ex *output.Exchange) *printingTransport {
	return &printingTransport{
		next:      next,
		formatter: formatter,
		out:       out,
		exchange:  ex,
	}
}

// Fetch implements mande.Transport.
func (p *printingTransport) Fetch(ctx context.Context, url string, opts *mande.TransportOptions) (mande.Response, error) {
	p.mu.Lock()
	quiet := p.quiet
	if !quiet {
		req := output.NewRequestData(url, opts)
		p.exchange.Requests = append(p.exchange.Requests, req)
		fmt.Fprint(p.out, p.formatter.FormatRequest(req))
	}
	p.mu.Unlock()

	resp, err := p.next.Fetch(ctx, url, opts)
	if err != nil || quiet {
		return resp, err
	}

	p.mu.Lock()
	data := output.NewResponseData(resp)
	p.exchange.Responses = append(p.exchange.Responses, data)
	fmt.Fprint(p.out, p.formatter.FormatResponse(data))
	p.mu.Unlock()

	return resp, nil
}

func (p *printingTransport) silence() {
	p.mu.Lock()
	p.quiet = true
	p.mu.Unlock()
}
