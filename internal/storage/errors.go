package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// DuplicateQSOError is returned when a contact with the same callsign, park
// and band is already logged in the session.
type DuplicateQSOError struct {
	Callsign string
	Park     string
	Band     string
}

func (e *DuplicateQSOError) Error() string {
	return fmt.Sprintf("Already logged %s at %s on %s", e.Callsign, e.Park, e.Band)
}

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	return false
}
