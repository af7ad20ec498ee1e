package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// TicketRepo manages tickets and their variant rows. A ticket and its
// single variant are written in one transaction, so a partial ticket is
// never observable. Ticket rows are mutated only by ClaimNext, which
// flips the printed flag exactly once.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// InsertWithVariant atomically creates the ticket row plus exactly one
// variant record. The caller must have populated ID, ShowID, Type and
// the matching variant payload. On any constraint violation the whole
// ticket is rolled back and ErrConstraint is returned. The stored
// requested_at is read back into the struct after commit.
func (r *TicketRepo) InsertWithVariant(ctx context.Context, t *model.Ticket) error {
	switch t.Type {
	case model.RequestFreeform:
		if t.Freeform == nil || t.Selected != nil {
			return errors.New("freeform ticket must carry exactly the freeform variant")
		}
	case model.RequestSelected:
		if t.Selected == nil || t.Freeform != nil {
			return errors.New("selected ticket must carry exactly the selected variant")
		}
	default:
		return errors.New("unknown request type")
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
	const ins = `INSERT INTO ticket (ticket_id, show_id, requested_by, ip_address, reverse_dns, notes)
                 VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, t.ID, t.ShowID, t.RequestedBy, t.SourceIP, t.ReverseDNS, t.Notes); err != nil {
		return constraintErr(err)
	}
	switch t.Type {
	case model.RequestFreeform:
		const q = `INSERT INTO freeform_request (ticket_id, artist, title) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, t.ID, t.Freeform.Artist, t.Freeform.Title); err != nil {
			return constraintErr(err)
		}
	case model.RequestSelected:
		const q = `INSERT INTO selected_request (ticket_id, song_id) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, q, t.ID, t.Selected.SongID); err != nil {
			return constraintErr(err)
		}
	default:
		return errors.New("unknown request type")
	}
	const sel = `SELECT requested_at, printed FROM ticket WHERE ticket_id = ?`
	if err := tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.RequestedAt, &t.Printed); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// queueProjection merges the two variant shapes into the normalized
// queue entry: freeform rows carry the attendee's text with no tempo or
// key, selected rows resolve artist, title, tempo and key from the
// catalog. Ordering is requested_at ascending with ticket_id breaking
// ties, which fixes the print order within a show.
const queueProjection = `
SELECT * FROM (
    SELECT t.ticket_id, 'FREEFORM' AS req_type, t.show_id,
           fr.artist AS artist_display, fr.title AS title_display,
           NULL AS tempo, NULL AS song_key,
           t.requested_at, t.requested_by, t.notes, t.printed
    FROM ticket t
    JOIN freeform_request fr ON fr.ticket_id = t.ticket_id
    UNION ALL
    SELECT t.ticket_id, 'SELECTED' AS req_type, t.show_id,
           a.artist_name AS artist_display, s.song_title AS title_display,
           s.song_tempo AS tempo, s.song_key AS song_key,
           t.requested_at, t.requested_by, t.notes, t.printed
    FROM ticket t
    JOIN selected_request sr ON sr.ticket_id = t.ticket_id
    JOIN songs s ON s.song_id = sr.song_id
    JOIN artists a ON a.artist_id = s.artist_id
) AS request`

// Queue returns the reconciled request stream for a show, oldest first.
// When unprintedOnly is true, tickets already claimed by a printer
// worker are filtered out.
func (r *TicketRepo) Queue(ctx context.Context, showID uint64, unprintedOnly bool) ([]model.QueueEntry, error) {
	q := queueProjection + ` WHERE show_id = ?`
	if unprintedOnly {
		q += ` AND printed = 0`
	}
	q += ` ORDER BY requested_at ASC, ticket_id ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.QueueEntry, 0)
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQueueEntry(row rowScanner) (*model.QueueEntry, error) {
	var e model.QueueEntry
	var tempo sql.NullInt64
	var key sql.NullString
	var notes sql.NullString
	err := row.Scan(&e.TicketID, &e.Type, &e.ShowID, &e.ArtistDisplay, &e.TitleDisplay,
		&tempo, &key, &e.RequestedAt, &e.RequestedBy, &notes, &e.Printed)
	if err != nil {
		return nil, err
	}
	if tempo.Valid {
		t := uint32(tempo.Int64)
		e.Tempo = &t
	}
	if key.Valid {
		k := key.String
		e.Key = &k
	}
	if notes.Valid {
		n := notes.String
		e.Notes = &n
	}
	return &e, nil
}

// ClaimNext selects the oldest unprinted ticket for the show and marks
// it printed in the same transaction, recording which worker took it.
// The selection uses FOR UPDATE SKIP LOCKED so two concurrent workers
// never observe the same unprinted row: the second caller skips past
// the locked ticket to the next one. Returns ErrNotFound when the
// queue is empty.
func (r *TicketRepo) ClaimNext(ctx context.Context, showID uint64, workerID string) (*model.QueueEntry, error) {
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
	const pick = `SELECT ticket_id FROM ticket
                  WHERE show_id = ? AND printed = 0
                  ORDER BY requested_at ASC, ticket_id ASC
                  LIMIT 1
                  FOR UPDATE SKIP LOCKED`
	var ticketID string
	if err := tx.QueryRowContext(ctx, pick, showID).Scan(&ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The printed = 0 guard makes the update conditional even if the row
	// lock were ever lost: a ticket printed in between claims nothing.
	const mark = `UPDATE ticket
                  SET printed = 1, printed_at = UTC_TIMESTAMP(6), printed_by = ?
                  WHERE ticket_id = ? AND printed = 0`
	res, err := tx.ExecContext(ctx, mark, workerID, ticketID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	q := queueProjection + ` WHERE ticket_id = ?`
	entry, err := scanQueueEntry(tx.QueryRowContext(ctx, q, ticketID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return entry, nil
}

// GetByID loads a ticket with its variant payload. Returns ErrNotFound
// when the ticket does not exist.
func (r *TicketRepo) GetByID(ctx context.Context, ticketID string) (*model.Ticket, error) {
	const q = `SELECT ticket_id, show_id, requested_by, ip_address, reverse_dns, notes, printed, requested_at
               FROM ticket WHERE ticket_id = ?`
	var t model.Ticket
	var rdns, notes sql.NullString
	err := r.db.QueryRowContext(ctx, q, ticketID).Scan(
		&t.ID, &t.ShowID, &t.RequestedBy, &t.SourceIP, &rdns, &notes, &t.Printed, &t.RequestedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rdns.Valid {
		v := rdns.String
		t.ReverseDNS = &v
	}
	if notes.Valid {
		v := notes.String
		t.Notes = &v
	}
	var artist, title string
	ffErr := r.db.QueryRowContext(ctx, `SELECT artist, title FROM freeform_request WHERE ticket_id = ?`, ticketID).Scan(&artist, &title)
	if ffErr == nil {
		t.Type = model.RequestFreeform
		t.Freeform = &model.FreeformRequest{Artist: artist, Title: title}
		return &t, nil
	}
	if !errors.Is(ffErr, sql.ErrNoRows) {
		return nil, ffErr
	}
	var songID string
	if err := r.db.QueryRowContext(ctx, `SELECT song_id FROM selected_request WHERE ticket_id = ?`, ticketID).Scan(&songID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("ticket has no variant record")
		}
		return nil, err
	}
	t.Type = model.RequestSelected
	t.Selected = &model.SelectedRequest{SongID: songID}
	return &t, nil
}

// Delete removes a ticket and its variant record in one transaction.
// This is an administrative override; normal operation never deletes
// tickets. Returns ErrNotFound when the ticket does not exist.
func (r *TicketRepo) Delete(ctx context.Context, ticketID string) error {
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM freeform_request WHERE ticket_id = ?`, ticketID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM selected_request WHERE ticket_id = ?`, ticketID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM ticket WHERE ticket_id = ?`, ticketID)
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
