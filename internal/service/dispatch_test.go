package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// memQueue is an in-memory QueueStore with the same claim contract as
// the real one: oldest unprinted first, each ticket handed out at most
// once.
type memQueue struct {
	mu      sync.Mutex
	entries []model.QueueEntry
	err     error
}

func (m *memQueue) Queue(_ context.Context, showID uint64, unprintedOnly bool) ([]model.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.QueueEntry, 0)
	for _, e := range m.entries {
		if e.ShowID != showID {
			continue
		}
		if unprintedOnly && e.Printed {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memQueue) ClaimNext(_ context.Context, showID uint64, _ string) (*model.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.entries {
		if m.entries[i].ShowID != showID || m.entries[i].Printed {
			continue
		}
		m.entries[i].Printed = true
		claimed := m.entries[i]
		return &claimed, nil
	}
	return nil, repository.ErrNotFound
}

func queueEntry(id string, showID uint64, at time.Time) model.QueueEntry {
	return model.QueueEntry{
		TicketID:      id,
		Type:          model.RequestFreeform,
		ShowID:        showID,
		ArtistDisplay: "Orbital",
		TitleDisplay:  "Halcyon",
		RequestedAt:   at,
		RequestedBy:   "dana",
	}
}

func TestStreamFiltersPrinted(t *testing.T) {
	now := time.Now().UTC()
	printed := queueEntry("t1", 7, now)
	printed.Printed = true
	store := &memQueue{entries: []model.QueueEntry{printed, queueEntry("t2", 7, now.Add(time.Second))}}
	d := NewDispatcher(store, nil)

	all, err := d.Stream(context.Background(), 7, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	waiting, err := d.Stream(context.Background(), 7, true)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "t2", waiting[0].TicketID)
}

func TestClaimNextEmptyQueueReturnsNil(t *testing.T) {
	d := NewDispatcher(&memQueue{}, nil)
	entry, err := d.ClaimNext(context.Background(), 7, "printer-1")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestClaimNextPublishesPrintedEvent(t *testing.T) {
	store := &memQueue{entries: []model.QueueEntry{queueEntry("t1", 7, time.Now().UTC())}}
	sink := &fakeSink{}
	d := NewDispatcher(store, sink)

	entry, err := d.ClaimNext(context.Background(), 7, "printer-1")
	require.NoError(t, err)
	require.NotNil(t, entry)

	require.Len(t, sink.printed, 1)
	assert.Equal(t, "t1", sink.printed[0].TicketID)
	assert.Equal(t, "printer-1", sink.printed[0].WorkerID)
	assert.Equal(t, "Orbital", sink.printed[0].Artist)
}

func TestClaimNextPropagatesStoreError(t *testing.T) {
	d := NewDispatcher(&memQueue{err: errors.New("store down")}, nil)
	_, err := d.ClaimNext(context.Background(), 7, "printer-1")
	assert.Error(t, err)
}

// Many workers polling one show must drain the queue with every ticket
// handed out exactly once.
func TestClaimNextConcurrentWorkersNeverShareTickets(t *testing.T) {
	const tickets = 40
	now := time.Now().UTC()
	store := &memQueue{}
	for i := 0; i < tickets; i++ {
		store.entries = append(store.entries, queueEntry(fmt.Sprintf("t-%03d", i), 7, now.Add(time.Duration(i)*time.Millisecond)))
	}
	d := NewDispatcher(store, nil)

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				entry, err := d.ClaimNext(context.Background(), 7, "printer")
				if err != nil || entry == nil {
					return
				}
				mu.Lock()
				seen[entry.TicketID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, tickets)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "ticket %s claimed %d times", id, n)
	}
}
