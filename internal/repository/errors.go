// Package repository contains the data access layer for the kiosk. This
// file defines sentinel errors shared across repositories so that the
// service and handler layers can distinguish failure scenarios without
// inspecting driver internals. Driver-specific constraint errors are
// translated here and nowhere else.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrBlocked is returned when ingestion is refused because the source
// IP has a blocklist entry. Handlers should translate this into an
// HTTP 403 response.
var ErrBlocked = errors.New("source address is blocked")

// ErrUnknownSong is returned when a selected request references a song
// that does not exist or is not reachable from the requesting show's
// crates. Handlers should translate this into an HTTP 422 response.
var ErrUnknownSong = errors.New("song not in show catalog")

// ErrDuplicateHash is returned when a catalog insert collides with an
// existing song's content hash filed in a different crate. The hash is
// globally unique, so the insert is rejected rather than moved.
var ErrDuplicateHash = errors.New("song hash already exists in another crate")

// ErrNotFound is returned by lookups on nonexistent shows, crates,
// tickets or credentials. Handlers should translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrConstraint wraps any other referential or uniqueness failure
// surfaced by the store during an atomic write. The transaction has
// been rolled back and the caller may retry.
var ErrConstraint = errors.New("constraint violation")

// MySQL server error numbers for constraint failures.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

// isDuplicateEntry reports whether err is a unique-key violation.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// isForeignKeyViolation reports whether err is a failed foreign key check.
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrNoReferencedRow
}

// constraintErr maps driver constraint failures onto ErrConstraint while
// passing other errors through untouched.
func constraintErr(err error) error {
	if isDuplicateEntry(err) || isForeignKeyViolation(err) {
		return ErrConstraint
	}
	return err
}
