package tgbot

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

// CursorStore persists the id of the last fully processed update so a
// restarted poller resumes without dropping updates.
type CursorStore interface {
	GetCursor() (int64, error)
	SetCursor(lastUpdateID int64) error
}

// UpdateHandler processes one inbound update. Processing must tolerate
// redelivery: the source is at-least-once.
type UpdateHandler func(ctx context.Context, update Update) error

// Poller is a single sequential consumer of the bot's update stream. Exactly
// one poller may run against a cursor at a time.
type Poller struct {
	client  *Client
	store   CursorStore
	handler UpdateHandler
	timeout int
}

// NewPoller creates a Poller that long-polls for up to timeout seconds per
// fetch. The client's HTTP timeout is raised above the poll timeout so the
// held-open getUpdates connection is not cut off mid-poll.
func NewPoller(client *Client, store CursorStore, handler UpdateHandler, timeout int) *Poller {
	client.httpClient.Timeout = time.Duration(timeout+30) * time.Second
	return &Poller{
		client:  client,
		store:   store,
		handler: handler,
		timeout: timeout,
	}
}

// Run polls until ctx is cancelled. A failed fetch backs off and retries; it
// never terminates the loop. The cursor is checkpointed only after a batch is
// fully processed, so a crash mid-batch redelivers rather than drops.
func (p *Poller) Run(ctx context.Context) error {
	cursor, err := p.store.GetCursor()
	if err != nil {
		return err
	}
	log.Printf("Bot poller starting at offset %d", cursor+1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.fetch(ctx, cursor+1)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Failed to fetch updates: %v", err)
			continue
		}

		processed := cursor
		for _, update := range updates {
			if update.UpdateID <= cursor {
				// Redelivered update, already processed.
				continue
			}
			if err := p.handler(ctx, update); err != nil {
				log.Printf("Failed to process update %d: %v", update.UpdateID, err)
			}
			processed = update.UpdateID
		}

		if processed > cursor {
			if err := p.store.SetCursor(processed); err != nil {
				log.Printf("Failed to checkpoint offset %d: %v", processed, err)
				continue
			}
			cursor = processed
		}
	}
}

// fetch wraps GetUpdates with exponential backoff so a flaky network or API
// outage slows the loop down instead of spinning it.
func (p *Poller) fetch(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update

	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		updates, err = p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}
