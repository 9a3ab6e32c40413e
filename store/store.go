// Package store is the SQLite data access layer: tracked creators, their
// videos, and the scrape log. It also implements analytics.Source, so the
// aggregation engine can pull creator snapshots without knowing about
// SQL.
//
// The store receives an already-opened *sql.DB (see dbopen); it never
// opens or owns the connection.
package store

import (
	"database/sql"
	"errors"
	"regexp"

	"github.com/wrenfold/creatorscope/idgen"
)

var (
	// ErrNotFound is returned when a requested creator does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateHandle is returned when tracking an already-tracked handle.
	ErrDuplicateHandle = errors.New("store: handle already tracked")
	// ErrInvalidHandle is returned for handles outside ^[\w.]{1,30}$.
	ErrInvalidHandle = errors.New("store: invalid handle")
)

var handleRE = regexp.MustCompile(`^[\w.]{1,30}$`)

// ValidHandle reports whether h is an acceptable creator handle:
// letters, digits, underscores and dots, at most 30 characters.
func ValidHandle(h string) bool {
	return handleRE.MatchString(h)
}

// Store wraps the creatorscope database.
type Store struct {
	DB    *sql.DB
	newID idgen.Generator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets a custom ID generator (tests inject sequences).
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store from an already-opened database connection.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		DB:    db,
		newID: idgen.UUIDv7(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
