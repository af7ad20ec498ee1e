package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// SongRepo manages catalog songs. The content hash is the global
// de-duplication key: a song already known by hash is never re-inserted,
// and attempting to file a known hash under a different crate is
// rejected with ErrDuplicateHash.
type SongRepo struct {
	db *sql.DB
}

// NewSongRepo constructs a SongRepo with the given DB handle.
func NewSongRepo(db *sql.DB) *SongRepo {
	return &SongRepo{db: db}
}

// ResolveByHash looks a song up by its content hash. It returns
// ErrNotFound when no song with that hash exists.
func (r *SongRepo) ResolveByHash(ctx context.Context, hash string) (*model.Song, error) {
	const q = `SELECT song_id, crate_id, hash, artist_id, song_title, song_tempo, song_key, added_at
               FROM songs WHERE hash = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, strings.ToLower(hash)))
}

// GetByID retrieves a song by its opaque identifier.
func (r *SongRepo) GetByID(ctx context.Context, id string) (*model.Song, error) {
	const q = `SELECT song_id, crate_id, hash, artist_id, song_title, song_tempo, song_key, added_at
               FROM songs WHERE song_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *SongRepo) scanOne(row *sql.Row) (*model.Song, error) {
	var s model.Song
	var tempo sql.NullInt64
	var key sql.NullString
	err := row.Scan(&s.ID, &s.CrateID, &s.Hash, &s.ArtistID, &s.Title, &tempo, &key, &s.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tempo.Valid {
		t := uint32(tempo.Int64)
		s.Tempo = &t
	}
	if key.Valid {
		k := key.String
		s.Key = &k
	}
	return &s, nil
}

// AddToCrate files a song under the given crate, de-duplicated by
// content hash. Re-adding a hash already filed in the same crate
// updates the song's metadata and returns the existing ID; a hash filed
// in a different crate is rejected with ErrDuplicateHash. Insertion and
// the conflict decision run inside one transaction so concurrent loads
// of the same hash converge on a single row.
func (r *SongRepo) AddToCrate(ctx context.Context, crateID uint64, hash, artistID, title string, tempo *uint32, key *string) (*model.Song, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if hash == "" {
		return nil, errors.New("song hash is empty")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s := &model.Song{
		ID:       uuid.NewString(),
		CrateID:  crateID,
		Hash:     hash,
		ArtistID: artistID,
		Title:    title,
		Tempo:    tempo,
		Key:      key,
	}
	const ins = `INSERT INTO songs (song_id, crate_id, hash, artist_id, song_title, song_tempo, song_key)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, ins, s.ID, s.CrateID, s.Hash, s.ArtistID, s.Title, nullTempo(tempo), nullKey(key))
	if err == nil {
		const sel = `SELECT added_at FROM songs WHERE song_id = ?`
		if err := tx.QueryRowContext(ctx, sel, s.ID).Scan(&s.AddedAt); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return s, nil
	}
	if !isDuplicateEntry(err) {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The hash already exists. Lock the existing row to decide between
	// metadata update (same crate) and rejection (different crate).
	const sel = `SELECT song_id, crate_id FROM songs WHERE hash = ? FOR UPDATE`
	var existingID string
	var existingCrate uint64
	if err := tx.QueryRowContext(ctx, sel, hash).Scan(&existingID, &existingCrate); err != nil {
		return nil, err
	}
	if existingCrate != crateID {
		return nil, ErrDuplicateHash
	}
	const upd = `UPDATE songs SET artist_id = ?, song_title = ?, song_tempo = ?, song_key = ? WHERE song_id = ?`
	if _, err := tx.ExecContext(ctx, upd, artistID, title, nullTempo(tempo), nullKey(key), existingID); err != nil {
		return nil, constraintErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	s.ID = existingID
	return s, nil
}

func nullTempo(t *uint32) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullKey(k *string) interface{} {
	if k == nil {
		return nil
	}
	return *k
}

// InShow reports whether the song is reachable from the given show via
// its crate association. Selected requests must reference a song that
// is actually assigned to the requesting show.
func (r *SongRepo) InShow(ctx context.Context, songID string, showID uint64) (bool, error) {
	const q = `SELECT 1
               FROM songs s
               JOIN show_crate sc ON sc.crate_id = s.crate_id
               WHERE s.song_id = ? AND sc.show_id = ?
               LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, songID, showID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForShow returns the picker rows for a show: every song in the
// show's crates joined with its artist name. When artistID is non-empty
// the result is restricted to that artist. Ordering is by crate then
// insertion order within the crate, which keeps the kiosk listing
// stable as songs are added.
func (r *SongRepo) ListForShow(ctx context.Context, showID uint64, artistID string) ([]model.ShowSong, error) {
	q := `SELECT s.song_id, s.song_title, a.artist_id, a.artist_name
          FROM show_crate sc
          JOIN songs s ON s.crate_id = sc.crate_id
          JOIN artists a ON a.artist_id = s.artist_id
          WHERE sc.show_id = ?`
	args := []interface{}{showID}
	if artistID != "" {
		q += ` AND s.artist_id = ?`
		args = append(args, artistID)
	}
	q += ` ORDER BY s.crate_id, s.seq`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.ShowSong, 0)
	for rows.Next() {
		var ss model.ShowSong
		if err := rows.Scan(&ss.ID, &ss.Title, &ss.ArtistID, &ss.ArtistName); err != nil {
			return nil, err
		}
		result = append(result, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AppearanceCounts returns, for each artist, how many songs in the
// show's crates reference that artist. The result is recomputed on
// demand from the catalog rather than maintained incrementally.
func (r *SongRepo) AppearanceCounts(ctx context.Context, showID uint64) ([]model.ArtistAppearance, error) {
	const q = `SELECT a.artist_id, a.artist_name, COUNT(*) AS appearances
               FROM show_crate sc
               JOIN songs s ON s.crate_id = sc.crate_id
               JOIN artists a ON a.artist_id = s.artist_id
               WHERE sc.show_id = ?
               GROUP BY a.artist_id, a.artist_name
               ORDER BY appearances DESC, a.artist_name`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.ArtistAppearance, 0)
	for rows.Next() {
		var aa model.ArtistAppearance
		if err := rows.Scan(&aa.ArtistID, &aa.ArtistName, &aa.Appearances); err != nil {
			return nil, err
		}
		result = append(result, aa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
