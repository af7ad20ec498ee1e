package model

import "time"

// Crate is a named collection of songs. Crates are assignable to any
// number of shows through the show_crate association.
type Crate struct {
	ID        uint64    `json:"id"`         // crates.crate_id
	Name      string    `json:"name"`       // crates.crate_name
	CreatedAt time.Time `json:"created_at"` // crates.created_at
}
