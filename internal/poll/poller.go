// Package poll refreshes a text stream from the backend on a fixed cadence.
package poll

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/gameconsole/internal/logging"
)

// fetcher interface for dependency injection (testing).
type fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Publisher receives each successfully fetched text. The value replaces
// whatever was published before.
type Publisher interface {
	Publish(text string)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(text string)

// Publish calls f(text).
func (f PublisherFunc) Publish(text string) { f(text) }

// Poller fetches one URL repeatedly until its context is cancelled.
type Poller struct {
	fetcher   fetcher
	url       string
	interval  time.Duration
	publisher Publisher
}

// New creates a Poller. interval must be positive.
func New(f fetcher, url string, interval time.Duration, p Publisher) *Poller {
	return &Poller{
		fetcher:   f,
		url:       url,
		interval:  interval,
		publisher: p,
	}
}

// URL returns the polled endpoint.
func (p *Poller) URL() string { return p.url }

// Run polls until ctx is cancelled. The first cycle starts immediately;
// every later cycle starts one interval after the previous one finished, so
// cycles never overlap and a slow backend always gets the full delay.
//
// Failed cycles are logged and skipped. Run returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	every := rate.Every(p.interval)
	limiter := rate.NewLimiter(every, 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			// Wait fails only when ctx is done (or would be before a token).
			return nil
		}

		// No tokens accrue while the request is in flight; the next one is
		// due a full interval after the cycle ends.
		limiter.SetLimit(0)
		p.cycle(ctx)
		limiter.SetLimit(every)
	}
}

// cycle performs one fetch and publishes the result on success.
func (p *Poller) cycle(ctx context.Context) {
	text, err := p.fetcher.FetchText(ctx, p.url)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Warn("poll failed", "url", p.url, "err", err)
		return
	}
	p.publisher.Publish(text)
}
