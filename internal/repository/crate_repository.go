package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// CrateRepo manages persistence for crates. Crate names are unique;
// resolve-or-create races between concurrent bulk loaders are settled by
// the unique index, with the loser re-reading the winner's row.
type CrateRepo struct {
	db *sql.DB
}

// NewCrateRepo constructs a CrateRepo with the given DB handle.
func NewCrateRepo(db *sql.DB) *CrateRepo {
	return &CrateRepo{db: db}
}

// Resolve returns the crate with the given name, creating it when it
// does not exist yet. The call is idempotent: concurrent identical
// calls converge on a single row.
func (r *CrateRepo) Resolve(ctx context.Context, name string) (*model.Crate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("crate name is empty")
	}
	if c, err := r.getByName(ctx, name); err == nil {
		return c, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO crates (crate_name) VALUES (?)`, name)
	if err != nil {
		// Lost a creation race: another loader inserted the same name
		// between our lookup and insert. Re-read the winner.
		if isDuplicateEntry(err) {
			return r.getByName(ctx, name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT crate_id, crate_name, created_at FROM crates WHERE crate_id = ?`
	var c model.Crate
	if err := r.db.QueryRowContext(ctx, sel, id).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CrateRepo) getByName(ctx context.Context, name string) (*model.Crate, error) {
	const q = `SELECT crate_id, crate_name, created_at FROM crates WHERE crate_name = ?`
	var c model.Crate
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a crate by ID, returning ErrNotFound when missing.
func (r *CrateRepo) GetByID(ctx context.Context, id uint64) (*model.Crate, error) {
	const q = `SELECT crate_id, crate_name, created_at FROM crates WHERE crate_id = ?`
	var c model.Crate
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all crates ordered by name.
func (r *CrateRepo) List(ctx context.Context) ([]model.Crate, error) {
	const q = `SELECT crate_id, crate_name, created_at FROM crates ORDER BY crate_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Crate, 0)
	for rows.Next() {
		var c model.Crate
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a crate, its songs and its show associations in one
// transaction. Tickets whose selected request references a song in the
// crate are removed along with their variant rows, so no ticket is ever
// left without exactly one variant.
func (r *CrateRepo) Delete(ctx context.Context, crateID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Collect the tickets whose selected song lives in this crate, then
	// delete child rows before parents so every statement satisfies the
	// foreign keys on its own.
	const affectedQ = `SELECT sr.ticket_id
                       FROM selected_request sr
                       JOIN songs s ON s.song_id = sr.song_id
                       WHERE s.crate_id = ?`
	rows, err := tx.QueryContext(ctx, affectedQ, crateID)
	if err != nil {
		return err
	}
	var ticketIDs []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return scanErr
		}
		ticketIDs = append(ticketIDs, id)
	}
	if err = rows.Close(); err != nil {
		return err
	}
	if len(ticketIDs) > 0 {
		placeholders := strings.Repeat("?,", len(ticketIDs))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]interface{}, 0, len(ticketIDs))
		for _, id := range ticketIDs {
			args = append(args, id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM selected_request WHERE ticket_id IN (`+placeholders+`)`, args...); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ticket WHERE ticket_id IN (`+placeholders+`)`, args...); err != nil {
			return err
		}
	}
	steps := []string{
		`DELETE FROM songs WHERE crate_id = ?`,
		`DELETE FROM show_crate WHERE crate_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, crateID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM crates WHERE crate_id = ?`, crateID)
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
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
