package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/queue"
	"github.com/plzfm/song-request-kiosk/internal/repository"
)

type fakeBlocklist struct {
	blocked map[string]bool
	err     error
}

func (f *fakeBlocklist) IsBlocked(_ context.Context, ip string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.blocked[ip], nil
}

type fakeCatalog struct {
	inShow map[string]uint64
	err    error
}

func (f *fakeCatalog) InShow(_ context.Context, songID string, showID uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.inShow[songID] == showID, nil
}

type fakeTickets struct {
	inserted []*model.Ticket
	err      error
}

func (f *fakeTickets) InsertWithVariant(_ context.Context, t *model.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, t)
	return nil
}

type fakeSink struct {
	created []queue.TicketCreatedEvent
	printed []queue.TicketPrintedEvent
}

func (f *fakeSink) TicketCreated(_ context.Context, e queue.TicketCreatedEvent) {
	f.created = append(f.created, e)
}

func (f *fakeSink) TicketPrinted(_ context.Context, e queue.TicketPrintedEvent) {
	f.printed = append(f.printed, e)
}

func newTestEngine(bl *fakeBlocklist, cat *fakeCatalog, tk *fakeTickets, sink *fakeSink) *IngestEngine {
	if bl == nil {
		bl = &fakeBlocklist{}
	}
	if cat == nil {
		cat = &fakeCatalog{}
	}
	if tk == nil {
		tk = &fakeTickets{}
	}
	var events EventSink
	if sink != nil {
		events = sink
	}
	return NewIngestEngine(bl, cat, tk, events)
}

func freeformSubmission() Submission {
	return Submission{
		RequestedBy: "dana",
		ShowID:      7,
		Freeform:    &model.FreeformRequest{Artist: "Orbital", Title: "Halcyon"},
	}
}

func TestSubmitRejectsNeitherVariant(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil)
	_, err := e.Submit(context.Background(), Submission{RequestedBy: "dana", ShowID: 7})
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestSubmitRejectsBothVariants(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil)
	sub := freeformSubmission()
	sub.Selected = &model.SelectedRequest{SongID: "abc"}
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestSubmitRequiresRequestedBy(t *testing.T) {
	tk := &fakeTickets{}
	e := newTestEngine(nil, nil, tk, nil)
	sub := freeformSubmission()
	sub.RequestedBy = "   "
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, tk.inserted)
}

func TestSubmitBlockedSourceLeavesNoTrace(t *testing.T) {
	bl := &fakeBlocklist{blocked: map[string]bool{"10.1.2.3": true}}
	tk := &fakeTickets{}
	sink := &fakeSink{}
	e := newTestEngine(bl, nil, tk, sink)
	e.dnsWait = 0

	sub := freeformSubmission()
	sub.SourceIP = "10.1.2.3"
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, repository.ErrBlocked)
	assert.Empty(t, tk.inserted)
	assert.Empty(t, sink.created)
}

func TestSubmitFailsClosedOnBlocklistError(t *testing.T) {
	bl := &fakeBlocklist{err: errors.New("store down")}
	tk := &fakeTickets{}
	e := newTestEngine(bl, nil, tk, nil)

	_, err := e.Submit(context.Background(), freeformSubmission())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrBlocked)
	assert.Empty(t, tk.inserted)
}

func TestSubmitSelectedSongMustBeInShow(t *testing.T) {
	cat := &fakeCatalog{inShow: map[string]uint64{"song-1": 7}}
	tk := &fakeTickets{}
	e := newTestEngine(nil, cat, tk, nil)

	sub := Submission{
		RequestedBy: "dana",
		ShowID:      8, // song-1 belongs to show 7
		Selected:    &model.SelectedRequest{SongID: "song-1"},
	}
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, repository.ErrUnknownSong)
	assert.Empty(t, tk.inserted)
}

func TestSubmitFreeformRequiresArtistAndTitle(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil)
	sub := freeformSubmission()
	sub.Freeform.Title = "  "
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitFreeformPersistsAndPublishes(t *testing.T) {
	tk := &fakeTickets{}
	sink := &fakeSink{}
	e := newTestEngine(nil, nil, tk, sink)

	sub := freeformSubmission()
	sub.RequestedBy = "  dana  "
	sub.Freeform = &model.FreeformRequest{Artist: " Orbital ", Title: " Halcyon "}
	ticket, err := e.Submit(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Equal(t, model.RequestFreeform, ticket.Type)
	require.NotNil(t, ticket.Freeform)
	assert.Nil(t, ticket.Selected)
	assert.Equal(t, "dana", ticket.RequestedBy)
	assert.Equal(t, "Orbital", ticket.Freeform.Artist)
	assert.Equal(t, "Halcyon", ticket.Freeform.Title)
	assert.NotEmpty(t, ticket.ID)

	require.Len(t, tk.inserted, 1)
	assert.Same(t, ticket, tk.inserted[0])

	require.Len(t, sink.created, 1)
	assert.Equal(t, ticket.ID, sink.created[0].TicketID)
	assert.Equal(t, string(model.RequestFreeform), sink.created[0].Type)
}

func TestSubmitSelectedPersists(t *testing.T) {
	cat := &fakeCatalog{inShow: map[string]uint64{"song-1": 7}}
	tk := &fakeTickets{}
	e := newTestEngine(nil, cat, tk, nil)

	sub := Submission{
		RequestedBy: "lee",
		ShowID:      7,
		Selected:    &model.SelectedRequest{SongID: "song-1"},
	}
	ticket, err := e.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, model.RequestSelected, ticket.Type)
	require.NotNil(t, ticket.Selected)
	assert.Nil(t, ticket.Freeform)
	assert.Equal(t, "song-1", ticket.Selected.SongID)
	require.Len(t, tk.inserted, 1)
}

func TestSubmitPropagatesStoreError(t *testing.T) {
	tk := &fakeTickets{err: repository.ErrConstraint}
	sink := &fakeSink{}
	e := newTestEngine(nil, nil, tk, sink)

	_, err := e.Submit(context.Background(), freeformSubmission())
	assert.ErrorIs(t, err, repository.ErrConstraint)
	assert.Empty(t, sink.created)
}

func TestSubmitWithoutSinkDoesNotPanic(t *testing.T) {
	e := newTestEngine(nil, nil, &fakeTickets{}, nil)
	_, err := e.Submit(context.Background(), freeformSubmission())
	assert.NoError(t, err)
}
