package mentorships

import (
	"context"
	"time"

	"pathways-backend/internal/shared/metrics"
)

// DefaultPollInterval is how often an open stream re-fetches messages.
const DefaultPollInterval = 3 * time.Second

// Batch is one poll result. Err is set when the fetch failed; the poller
// keeps running and retries on the next tick.
type Batch struct {
	Messages []ChatMessage
	Err      error
}

// Poller re-fetches messages on a fixed interval.
type Poller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context, since Cursor) ([]ChatMessage, error)
}

// Start polls in a goroutine until ctx ends, then closes the returned
// channel. Only non-empty batches and errors are delivered. The cursor
// advances to the newest delivered message.
func (p *Poller) Start(ctx context.Context, since Cursor) <-chan Batch {
	out := make(chan Batch)
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		cursor := since
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			msgs, err := p.Fetch(ctx, cursor)
			if ctx.Err() != nil {
				return
			}
			switch {
			case err != nil:
				metrics.IncChatPoll("error")
			case len(msgs) == 0:
				metrics.IncChatPoll("empty")
				continue
			default:
				metrics.IncChatPoll("ok")
				cursor = CursorOf(msgs[len(msgs)-1])
			}
			select {
			case out <- Batch{Messages: msgs, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
