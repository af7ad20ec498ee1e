package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// ShowRepo manages persistence for shows and the show_crate association.
// Show identifiers are small ordinals assigned by AUTO_INCREMENT and are
// never reused. Show names are unique and immutable once created.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new show and assigns the generated ordinal ID back to
// the struct. A duplicate name is surfaced as ErrConstraint.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (show_name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, s.Name)
	if err != nil {
		return constraintErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT show_id, show_name, active, created_at FROM shows WHERE show_id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.ID, &s.Name, &s.Active, &s.CreatedAt)
}

// GetByID retrieves a show by its ID. It returns ErrNotFound when no
// matching row exists.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT show_id, show_name, active, created_at FROM shows WHERE show_id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Active, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListActive returns all active shows ordered by name. When no active
// shows exist it returns an empty slice and nil error.
func (r *ShowRepo) ListActive(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT show_id, show_name, active, created_at FROM shows WHERE active = 1 ORDER BY show_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.Name, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AssociateCrates links any number of crates with a show inside one
// transaction. Pairs that already exist are skipped so the operation is
// idempotent; a crate ID that does not exist fails the whole batch with
// ErrNotFound and no association is recorded.
func (r *ShowRepo) AssociateCrates(ctx context.Context, showID uint64, crateIDs []uint64) error {
	if len(crateIDs) == 0 {
		return nil
	}
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
	const q = `INSERT IGNORE INTO show_crate (show_id, crate_id) VALUES (?, ?)`
	for _, cid := range crateIDs {
		if _, err := tx.ExecContext(ctx, q, showID, cid); err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListCrates returns the crates currently associated with a show,
// ordered by crate name.
func (r *ShowRepo) ListCrates(ctx context.Context, showID uint64) ([]model.Crate, error) {
	const q = `SELECT c.crate_id, c.crate_name, c.created_at
               FROM show_crate sc
               JOIN crates c ON c.crate_id = sc.crate_id
               WHERE sc.show_id = ?
               ORDER BY c.crate_name`
	rows, err := r.db.QueryContext(ctx, q, showID)
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

// Delete removes a show together with its dependent rows: crate
// associations, tickets submitted to the show and their variant records.
// All deletions happen in a single transaction so a partial cascade is
// never observable. Returns ErrNotFound when the show does not exist.
func (r *ShowRepo) Delete(ctx context.Context, showID uint64) error {
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
	steps := []string{
		`DELETE fr FROM freeform_request fr JOIN ticket t ON t.ticket_id = fr.ticket_id WHERE t.show_id = ?`,
		`DELETE sr FROM selected_request sr JOIN ticket t ON t.ticket_id = sr.ticket_id WHERE t.show_id = ?`,
		`DELETE FROM ticket WHERE show_id = ?`,
		`DELETE FROM show_crate WHERE show_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, showID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE show_id = ?`, showID)
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
