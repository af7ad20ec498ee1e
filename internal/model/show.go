package model

import "time"

// Show represents one broadcast event. A show is really just a named
// collection of crates: the crates associated with a show define which
// songs attendees can pick from the kiosk while the show is on air.
//
// Fields:
//  ID        – small ordinal identifier assigned at creation time.
//  Name      – unique, immutable once created.
//  Active    – whether the show is currently open for requests.
//  CreatedAt – creation timestamp.
type Show struct {
	ID        uint64    `json:"id"`         // shows.show_id
	Name      string    `json:"name"`       // shows.show_name
	Active    bool      `json:"active"`     // shows.active
	CreatedAt time.Time `json:"created_at"` // shows.created_at
}
