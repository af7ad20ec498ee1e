package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// ArtistRepo manages the canonical artist table. Artist names are
// normalized before insertion and held unique, so every song pointing at
// the same performer resolves to one row even when bulk loaders race.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// NormalizeArtistName canonicalizes an artist name for storage and
// comparison: surrounding whitespace is stripped and internal runs of
// whitespace collapse to a single space. Case is preserved for display;
// the unique index on artist_name is case-insensitive at the collation
// level.
func NormalizeArtistName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Resolve returns the artist with the given name, creating it when it
// does not exist. Concurrent identical calls yield a single artist: a
// loser of the creation race detects the duplicate-key error and
// re-reads the winner's row.
func (r *ArtistRepo) Resolve(ctx context.Context, name string) (*model.Artist, error) {
	name = NormalizeArtistName(name)
	if name == "" {
		return nil, errors.New("artist name is empty")
	}
	if a, err := r.getByName(ctx, name); err == nil {
		return a, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	a := &model.Artist{ID: uuid.NewString(), Name: name}
	_, err := r.db.ExecContext(ctx, `INSERT INTO artists (artist_id, artist_name) VALUES (?, ?)`, a.ID, a.Name)
	if err != nil {
		if isDuplicateEntry(err) {
			return r.getByName(ctx, name)
		}
		return nil, err
	}
	return a, nil
}

func (r *ArtistRepo) getByName(ctx context.Context, name string) (*model.Artist, error) {
	const q = `SELECT artist_id, artist_name FROM artists WHERE artist_name = ?`
	var a model.Artist
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&a.ID, &a.Name); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an artist by its opaque identifier, returning
// ErrNotFound when missing.
func (r *ArtistRepo) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	const q = `SELECT artist_id, artist_name FROM artists WHERE artist_id = ?`
	var a model.Artist
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
