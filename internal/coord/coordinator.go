// Package coord runs the background pollers and feeds their results into the
// Bubble Tea program.
package coord

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/gameconsole/internal/logging"
	"github.com/abelbrown/gameconsole/internal/poll"
	"github.com/abelbrown/gameconsole/internal/ui/panel"
)

// Stream names a polled endpoint.
type Stream struct {
	Name string // panel the text is routed to
	URL  string
}

// fetcher interface for dependency injection (testing).
type fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// sender is the subset of *tea.Program the coordinator needs.
type sender interface {
	Send(msg tea.Msg)
}

// Coordinator owns one poller per stream.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	fetcher  fetcher
	streams  []Stream // IMMUTABLE: set at construction
	interval time.Duration
	done     chan struct{}
}

// NewCoordinator creates a Coordinator polling every stream at interval.
func NewCoordinator(f fetcher, streams []Stream, interval time.Duration) *Coordinator {
	streamsCopy := make([]Stream, len(streams))
	copy(streamsCopy, streams)

	return &Coordinator{
		fetcher:  f,
		streams:  streamsCopy,
		interval: interval,
	}
}

// Start launches the pollers. Each successful poll is delivered to program
// as a panel.TextUpdated. Cancel ctx to stop them, then call Wait.
func (c *Coordinator) Start(ctx context.Context, program sender) {
	c.done = make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range c.streams {
		p := poll.New(c.fetcher, s.URL, c.interval, poll.PublisherFunc(func(text string) {
			if program != nil {
				program.Send(panel.TextUpdated{Stream: s.Name, Text: text})
			}
		}))
		g.Go(func() error {
			logging.Debug("poller started", "stream", s.Name, "url", s.URL)
			defer logging.Debug("poller stopped", "stream", s.Name)
			return p.Run(gctx)
		})
	}

	go func() {
		defer close(c.done)
		if err := g.Wait(); err != nil {
			logging.Error("poller exited", "err", err)
		}
	}()
}

// Wait blocks until every poller has returned.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	if c.done != nil {
		<-c.done
	}
}
