package model

// Artist is a canonical performer identity. Artist names are normalized
// before insertion and kept unique so that every song referencing the
// same performer points at one row.
type Artist struct {
	ID   string `json:"id"`   // artists.artist_id (opaque UUID)
	Name string `json:"name"` // artists.artist_name
}

// ArtistAppearance reports how many songs in a show's crates reference
// a given artist. Returned by the appearance aggregation query.
type ArtistAppearance struct {
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Appearances uint64 `json:"appearances"`
}
