// Package queue defines message payloads exchanged over the message
// broker and the broker-facing publisher and consumer.
package queue

// TicketCreatedEvent is published after a request has been persisted.
// Printer stations use it as a wake-up signal so they can poll the
// claim endpoint instead of busy-looping against an empty queue.
type TicketCreatedEvent struct {
	TicketID    string `json:"ticket_id"`
	ShowID      uint64 `json:"show_id"`
	Type        string `json:"type"`
	RequestedBy string `json:"requested_by"`
	RequestedAt string `json:"requested_at"`
}

// TicketPrintedEvent is published after a printer worker has claimed a
// ticket. It carries the display fields so downstream consumers can
// log or show the slip without querying the primary database.
type TicketPrintedEvent struct {
	TicketID  string `json:"ticket_id"`
	ShowID    uint64 `json:"show_id"`
	WorkerID  string `json:"worker_id"`
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	PrintedAt string `json:"printed_at"`
}
