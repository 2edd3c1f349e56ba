package ingest

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// contextTransport cancels in-flight requests when the run's context is done.
// The request keeps its own context too, so the client timeout still applies.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(req.Context())
	stop := context.AfterFunc(t.ctx, cancel)
	release := func() {
		stop()
		cancel()
	}

	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		release()
		return nil, err
	}
	resp.Body = &releaseOnClose{ReadCloser: resp.Body, release: release}
	return resp, nil
}

// releaseOnClose keeps the request context alive until the body is consumed.
type releaseOnClose struct {
	io.ReadCloser
	release func()
}

func (b *releaseOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}

// visitListing fetches one listing page and calls onItem for every element
// matching selector, in document order. Non-2xx answers come back as errors.
// Cancelling ctx aborts the request; its deadline caps the request timeout.
func visitListing(ctx context.Context, opts SourceOptions, selector string, onItem colly.HTMLCallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}

	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
	)
	c.WithTransport(&contextTransport{ctx: ctx, base: http.DefaultTransport})
	c.SetRequestTimeout(timeout)

	c.OnHTML(selector, onItem)

	return c.Visit(opts.ListingURL)
}
