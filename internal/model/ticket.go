package model

import "time"

// RequestType tags the two shapes a ticket can take. A ticket carries
// exactly one variant: freeform text typed by the attendee, or a
// reference to a song already in the catalog. Never both, never neither.
type RequestType string

const (
	// RequestFreeform marks a request for a song that is not in the catalog.
	RequestFreeform RequestType = "FREEFORM"
	// RequestSelected marks a request that references a catalog song.
	RequestSelected RequestType = "SELECTED"
)

// Ticket records one request occurrence. Tickets are created atomically
// with their variant row, mutated only by the print-queue claim step
// (printed goes false to true exactly once), and never deleted outside
// of administrative overrides.
//
// Fields:
//  ID          – opaque UUID assigned at ingestion.
//  ShowID      – show the request was submitted to.
//  RequestedBy – attendee-supplied label ("who is asking").
//  SourceIP    – client address the request arrived from.
//  ReverseDNS  – best-effort PTR lookup of SourceIP; empty when lookup failed.
//  Notes       – free text passed through to the printed slip.
//  Printed     – monotonic flag set by the dispatcher's claim.
//  RequestedAt – ingestion timestamp; print order follows this within a show.
//  Type        – which variant is attached.
//  Freeform    – populated iff Type == RequestFreeform.
//  Selected    – populated iff Type == RequestSelected.
type Ticket struct {
	ID          string           `json:"id"`
	ShowID      uint64           `json:"show_id"`
	RequestedBy string           `json:"requested_by"`
	SourceIP    string           `json:"ip_address"`
	ReverseDNS  *string          `json:"reverse_dns,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Printed     bool             `json:"printed"`
	RequestedAt time.Time        `json:"requested_at"`
	Type        RequestType      `json:"type"`
	Freeform    *FreeformRequest `json:"freeform,omitempty"`
	Selected    *SelectedRequest `json:"selected,omitempty"`
}

// FreeformRequest is the variant payload for an uncataloged song,
// captured exactly as the attendee typed it.
type FreeformRequest struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// SelectedRequest is the variant payload referencing a catalog song.
type SelectedRequest struct {
	SongID string `json:"song_id"`
}

// QueueEntry is the reconciled projection of a ticket for the print
// queue: both variants normalized into one shape. For freeform tickets
// the display fields are the attendee's text and tempo/key are nil; for
// selected tickets they are resolved from the catalog.
type QueueEntry struct {
	TicketID      string      `json:"ticket_id"`
	Type          RequestType `json:"type"`
	ShowID        uint64      `json:"show_id"`
	ArtistDisplay string      `json:"artist"`
	TitleDisplay  string      `json:"title"`
	Tempo         *uint32     `json:"tempo,omitempty"`
	Key           *string     `json:"key,omitempty"`
	RequestedAt   time.Time   `json:"requested_at"`
	RequestedBy   string      `json:"requested_by"`
	Notes         *string     `json:"notes,omitempty"`
	Printed       bool        `json:"printed"`
}
