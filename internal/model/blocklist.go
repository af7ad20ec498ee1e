package model

import "time"

// BlockEntry is one banned source address. Presence of an entry blocks
// all future ticket ingestion from that IP; there is no expiry, blocks
// last until explicitly removed.
type BlockEntry struct {
	IP         string    `json:"ip_address"`            // blocklist.ip_address
	BlockedAt  time.Time `json:"blocked_at"`            // blocklist.blocked_at
	ReverseDNS *string   `json:"reverse_dns,omitempty"` // blocklist.reverse_dns (nullable)
	Notes      *string   `json:"notes,omitempty"`       // blocklist.notes (nullable)
}
