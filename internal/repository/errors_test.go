package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: mysqlErrDuplicateEntry, Message: "Duplicate entry"}
	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: mysqlErrNoReferencedRow}))
	assert.False(t, isDuplicateEntry(errors.New("plain")))
	assert.False(t, isDuplicateEntry(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &mysql.MySQLError{Number: mysqlErrNoReferencedRow, Message: "a foreign key constraint fails"}
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(&mysql.MySQLError{Number: mysqlErrDuplicateEntry}))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestConstraintErrWrapsSentinel(t *testing.T) {
	dup := &mysql.MySQLError{Number: mysqlErrDuplicateEntry}
	assert.ErrorIs(t, constraintErr(dup), ErrConstraint)

	fk := &mysql.MySQLError{Number: mysqlErrNoReferencedRow}
	assert.ErrorIs(t, constraintErr(fk), ErrConstraint)

	plain := errors.New("connection reset")
	assert.NotErrorIs(t, constraintErr(plain), ErrConstraint)
}
