// Package service contains the request ingestion engine and the
// print-queue dispatcher. Both operate purely through the repository
// contracts so that the store remains the single concurrency primitive:
// no in-process locks, every mutation one transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plzfm/song-request-kiosk/internal/model"
	"github.com/plzfm/song-request-kiosk/internal/queue"
	"github.com/plzfm/song-request-kiosk/internal/repository"
)

// ErrValidation wraps every submission-shape failure so handlers can
// translate the whole family into a 400 response with errors.Is.
var ErrValidation = errors.New("invalid submission")

// ErrInvalidChoice is returned when a submission does not carry exactly
// one of the two request shapes.
var ErrInvalidChoice = fmt.Errorf("%w: exactly one of freeform or selected required", ErrValidation)

// BlocklistGuard is the ingestion engine's view of the blocklist.
type BlocklistGuard interface {
	IsBlocked(ctx context.Context, ip string) (bool, error)
}

// CatalogReader answers whether a song is reachable from a show.
type CatalogReader interface {
	InShow(ctx context.Context, songID string, showID uint64) (bool, error)
}

// TicketWriter persists a ticket together with its single variant row.
type TicketWriter interface {
	InsertWithVariant(ctx context.Context, t *model.Ticket) error
}

// EventSink receives domain events after a successful commit. Delivery
// is best effort; implementations must not block the request path on
// broker trouble.
type EventSink interface {
	TicketCreated(ctx context.Context, e queue.TicketCreatedEvent)
	TicketPrinted(ctx context.Context, e queue.TicketPrintedEvent)
}

// Submission is one incoming request as delivered by the transport
// layer. Exactly one of Freeform or Selected must be set; that choice
// classifies the ticket.
type Submission struct {
	SourceIP    string
	RequestedBy string
	ShowID      uint64
	Notes       *string
	Freeform    *model.FreeformRequest
	Selected    *model.SelectedRequest
}

// IngestEngine validates and classifies submissions and writes the
// ticket plus variant atomically. The per-ticket state machine is
// Received -> Classified -> Persisted, with Rejected as the other
// terminal state; nothing is written before every check has passed, so
// a rejected submission leaves no trace.
type IngestEngine struct {
	blocklist BlocklistGuard
	catalog   CatalogReader
	tickets   TicketWriter
	events    EventSink // may be nil
	resolver  *net.Resolver
	dnsWait   time.Duration
}

// NewIngestEngine constructs the engine. blocklist, catalog and tickets
// must be non-nil; events may be nil to disable publishing.
func NewIngestEngine(blocklist BlocklistGuard, catalog CatalogReader, tickets TicketWriter, events EventSink) *IngestEngine {
	if blocklist == nil || catalog == nil || tickets == nil {
		panic("nil store passed to NewIngestEngine")
	}
	return &IngestEngine{
		blocklist: blocklist,
		catalog:   catalog,
		tickets:   tickets,
		events:    events,
		resolver:  net.DefaultResolver,
		dnsWait:   2 * time.Second,
	}
}

// Submit runs the full ingestion sequence for one request:
//
//  1. best-effort reverse DNS on the source address
//  2. blocklist check, failing closed on lookup errors
//  3. catalog reachability check for selected requests
//  4. atomic ticket + variant insert
//
// It returns the persisted ticket, or ErrInvalidChoice,
// repository.ErrBlocked, repository.ErrUnknownSong or
// repository.ErrConstraint. Steps 1 through 3 write nothing, so any
// rejection leaves no partial state behind.
func (e *IngestEngine) Submit(ctx context.Context, sub Submission) (*model.Ticket, error) {
	if (sub.Freeform == nil) == (sub.Selected == nil) {
		return nil, ErrInvalidChoice
	}
	if strings.TrimSpace(sub.RequestedBy) == "" {
		return nil, fmt.Errorf("%w: requested_by is required", ErrValidation)
	}

	rdns := e.reverseDNS(ctx, sub.SourceIP)

	blocked, err := e.blocklist.IsBlocked(ctx, sub.SourceIP)
	if err != nil {
		// Fail closed: if the blocklist cannot be consulted, nothing
		// gets in.
		return nil, fmt.Errorf("blocklist lookup: %w", err)
	}
	if blocked {
		return nil, repository.ErrBlocked
	}

	t := &model.Ticket{
		ID:          uuid.NewString(),
		ShowID:      sub.ShowID,
		RequestedBy: strings.TrimSpace(sub.RequestedBy),
		SourceIP:    sub.SourceIP,
		ReverseDNS:  rdns,
		Notes:       sub.Notes,
	}
	if sub.Selected != nil {
		ok, err := e.catalog.InShow(ctx, sub.Selected.SongID, sub.ShowID)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup: %w", err)
		}
		if !ok {
			return nil, repository.ErrUnknownSong
		}
		t.Type = model.RequestSelected
		t.Selected = &model.SelectedRequest{SongID: sub.Selected.SongID}
	} else {
		if strings.TrimSpace(sub.Freeform.Artist) == "" || strings.TrimSpace(sub.Freeform.Title) == "" {
			return nil, fmt.Errorf("%w: freeform artist and title are required", ErrValidation)
		}
		t.Type = model.RequestFreeform
		t.Freeform = &model.FreeformRequest{
			Artist: strings.TrimSpace(sub.Freeform.Artist),
			Title:  strings.TrimSpace(sub.Freeform.Title),
		}
	}

	if err := e.tickets.InsertWithVariant(ctx, t); err != nil {
		return nil, err
	}

	if e.events != nil {
		e.events.TicketCreated(ctx, queue.TicketCreatedEvent{
			TicketID:    t.ID,
			ShowID:      t.ShowID,
			Type:        string(t.Type),
			RequestedBy: t.RequestedBy,
			RequestedAt: t.RequestedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return t, nil
}

// reverseDNS resolves the PTR record for ip with a short deadline.
// Failure is not an ingestion error; the field is simply left empty,
// matching how the kiosk has always treated unresolvable addresses.
func (e *IngestEngine) reverseDNS(ctx context.Context, ip string) *string {
	if ip == "" {
		return nil
	}
	lctx, cancel := context.WithTimeout(ctx, e.dnsWait)
	defer cancel()
	names, err := e.resolver.LookupAddr(lctx, ip)
	if err != nil || len(names) == 0 {
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("ingest: reverse dns for %s failed: %v", ip, err)
		}
		return nil
	}
	host := strings.TrimSuffix(names[0], ".")
	return &host
}
