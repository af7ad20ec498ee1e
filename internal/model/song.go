package model

import "time"

// Song is a catalog entry filed in exactly one crate. The content hash
// is an opaque de-duplication key over the song audio: two files with
// the same hash are the same song regardless of metadata, and the hash
// is unique across the whole catalog, not per crate.
//
// Fields:
//  ID       – opaque UUID assigned at insertion.
//  CrateID  – crate that owns this song.
//  Hash     – hex-encoded content hash, globally unique.
//  ArtistID – canonical artist reference.
//  Title    – display title.
//  Tempo    – beats per minute when known.
//  Key      – musical key when known (e.g. "8A").
type Song struct {
	ID       string    `json:"id"`
	CrateID  uint64    `json:"crate_id"`
	Hash     string    `json:"hash"`
	ArtistID string    `json:"artist_id"`
	Title    string    `json:"title"`
	Tempo    *uint32   `json:"tempo,omitempty"`
	Key      *string   `json:"key,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// ShowSong is the picker row served to the kiosk: a song joined with
// its resolved artist name for display.
type ShowSong struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
}
