package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// BlocklistRepo manages banned source addresses. Blocks are permanent
// until explicitly removed; there is no expiry column and no sweep.
type BlocklistRepo struct {
	db *sql.DB
}

// NewBlocklistRepo constructs a BlocklistRepo with the given DB handle.
func NewBlocklistRepo(db *sql.DB) *BlocklistRepo {
	return &BlocklistRepo{db: db}
}

// IsBlocked reports whether the IP has a blocklist entry. The lookup is
// side-effect free. Callers on the ingestion path must treat an error
// from this method as a denial, never as an open gate.
func (r *BlocklistRepo) IsBlocked(ctx context.Context, ip string) (bool, error) {
	const q = `SELECT 1 FROM blocklist WHERE ip_address = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, ip).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Block inserts or updates a blocklist entry. Re-blocking an already
// blocked IP refreshes reverse_dns and notes and never errors; the
// original blocked_at timestamp is preserved.
func (r *BlocklistRepo) Block(ctx context.Context, ip string, reverseDNS, notes *string) error {
	const q = `INSERT INTO blocklist (ip_address, reverse_dns, notes)
               VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE reverse_dns = VALUES(reverse_dns), notes = VALUES(notes)`
	_, err := r.db.ExecContext(ctx, q, ip, reverseDNS, notes)
	return err
}

// Unblock removes an entry, returning ErrNotFound when the IP was not
// blocked in the first place.
func (r *BlocklistRepo) Unblock(ctx context.Context, ip string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocklist WHERE ip_address = ?`, ip)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all blocklist entries, most recently blocked first.
func (r *BlocklistRepo) List(ctx context.Context) ([]model.BlockEntry, error) {
	const q = `SELECT ip_address, blocked_at, reverse_dns, notes FROM blocklist ORDER BY blocked_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.BlockEntry, 0)
	for rows.Next() {
		var e model.BlockEntry
		var rdns, notes sql.NullString
		if err := rows.Scan(&e.IP, &e.BlockedAt, &rdns, &notes); err != nil {
			return nil, err
		}
		if rdns.Valid {
			v := rdns.String
			e.ReverseDNS = &v
		}
		if notes.Valid {
			v := notes.String
			e.Notes = &v
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
