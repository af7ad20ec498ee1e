package service

import (
	"context"
	"errors"
	"time"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/queue"
	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// QueueStore is the dispatcher's view of the ticket store: the
// reconciled stream plus the atomic claim step.
type QueueStore interface {
	Queue(ctx context.Context, showID uint64, unprintedOnly bool) ([]model.QueueEntry, error)
	ClaimNext(ctx context.Context, showID uint64, workerID string) (*model.QueueEntry, error)
}

// Dispatcher hands tickets to printer workers. Claiming and marking
// printed are one atomic store operation, so a ticket is claimed at
// most once no matter how many workers poll concurrently; the
// dispatcher itself holds no state between calls.
type Dispatcher struct {
	store  QueueStore
	events EventSink // may be nil
}

// NewDispatcher constructs a Dispatcher. store must be non-nil; events
// may be nil to disable publishing.
func NewDispatcher(store QueueStore, events EventSink) *Dispatcher {
	if store == nil {
		panic("nil store passed to NewDispatcher")
	}
	return &Dispatcher{store: store, events: events}
}

// Stream returns the reconciled, time-ordered request stream for a
// show. With unprintedOnly the already-claimed tickets are filtered
// out, which is what the printer station display wants.
func (d *Dispatcher) Stream(ctx context.Context, showID uint64, unprintedOnly bool) ([]model.QueueEntry, error) {
	return d.store.Queue(ctx, showID, unprintedOnly)
}

// ClaimNext hands the oldest unprinted ticket for the show to the
// calling worker and marks it printed in the same store transaction.
// It returns (nil, nil) when the queue is empty. Two concurrent calls
// never receive the same ticket.
func (d *Dispatcher) ClaimNext(ctx context.Context, showID uint64, workerID string) (*model.QueueEntry, error) {
	entry, err := d.store.ClaimNext(ctx, showID, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if d.events != nil {
		d.events.TicketPrinted(ctx, queue.TicketPrintedEvent{
			TicketID:  entry.TicketID,
			ShowID:    entry.ShowID,
			WorkerID:  workerID,
			Artist:    entry.ArtistDisplay,
			Title:     entry.TitleDisplay,
			PrintedAt: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
	return entry, nil
}
