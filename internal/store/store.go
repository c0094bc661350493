// Package store persists identities, their expense collections, and the
// active session. The SQLite implementation is the durable backend; the
// memory implementation mirrors its semantics for tests and for degraded
// operation when the database is unavailable.
package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// DefaultCap is the registry size limit. Registering past it evicts the
// oldest identity and its whole record, unconditionally.
const DefaultCap = 200

// GuestOwner is the reserved expense owner for the unauthenticated session.
// It never appears in the registry.
const GuestOwner = "@guest"

// ErrNotFound is returned by Delete when the id has no stored record.
var ErrNotFound = errors.New("store: identity not found")

// ErrInvalidRecord is returned by Save when the record cannot be persisted
// as given (malformed profile). It signals a caller bug, not a storage
// failure.
var ErrInvalidRecord = errors.New("store: invalid record")

// Store is the persistence boundary for identities, the session id, and the
// guest ledger. Every id in the registry has a stored record and vice versa
// after any operation completes. Eviction is strictly FIFO by registration
// order.
type Store interface {
	// Lookup returns the stored record for id. The bool is false when the
	// id is unknown; that is not an error.
	Lookup(id string) (model.StoredRecord, bool, error)

	// Save upserts the whole record. A new id is appended to the registry,
	// evicting the oldest entry first when the registry is at capacity; the
	// evicted id is returned so callers can log it.
	Save(id string, rec model.StoredRecord) (evicted string, err error)

	// Delete removes id from the registry and drops its record.
	Delete(id string) error

	// Count returns the registry length.
	Count() (int, error)

	// Registry returns all identity ids in registration order, oldest first.
	Registry() ([]string, error)

	// SessionID returns the persisted active identity id, if any.
	SessionID() (string, bool, error)
	SetSessionID(id string) error
	ClearSession() error

	// Guest ledger persistence. Outside the durability contract: a failed
	// guest write loses only unauthenticated data.
	GuestExpenses() ([]model.Expense, error)
	SaveGuestExpenses(expenses []model.Expense) error
	GuestBudget() (decimal.Decimal, error)
	SetGuestBudget(budget decimal.Decimal) error

	Close() error
}
