// Package session tracks which identity, if any, is active. It owns the
// restore-on-start, sign-in and sign-out transitions; the expense ledger is
// an external collaborator reached only through the injected guest accessor.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/auth"
	"tally/internal/model"
	"tally/internal/store"
)

// ErrAuthentication is returned by SignIn when the supplied password does
// not match the stored credential hash. No state changes on this path.
var ErrAuthentication = errors.New("session: incorrect password")

// ErrNotRestored is returned when a transition is attempted before Restore
// has run.
var ErrNotRestored = errors.New("session: restore has not run")

// GuestSource pulls the unauthenticated ledger's current contents at sign-in
// time. Injected so the session manager and the ledger stay independently
// testable.
type GuestSource func() []model.Expense

// SignInInput carries the candidate profile fields for sign-in. Registration
// and authentication share this single entry point: whether the derived id
// already has a stored record decides which path runs.
type SignInInput struct {
	Name           string
	Email          string
	AvatarColor    string
	AvatarInitials string
}

// SignInResult reports the outcome of a successful sign-in.
type SignInResult struct {
	Identity   model.Identity
	Record     model.StoredRecord
	Registered bool // true when this sign-in created the account
	Imported   int  // guest expenses newly merged in
	Considered int  // guest expenses examined
}

// Manager holds the session state machine. Construct one per process; tests
// construct isolated instances, there are no package-level singletons.
type Manager struct {
	store       store.Store
	guestSource GuestSource
	log         *slog.Logger

	restored bool
	current  *model.Identity
}

// NewManager creates a Manager in the not-yet-restored state.
func NewManager(st store.Store, guest GuestSource, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if guest == nil {
		guest = func() []model.Expense { return nil }
	}
	return &Manager{store: st, guestSource: guest, log: log}
}

// Restore resolves the persisted session id once, at process start. A
// dangling reference (id with no stored record) self-heals: it is cleared
// and the manager stays unauthenticated. Idempotent.
func (m *Manager) Restore() error {
	if m.restored {
		return nil
	}

	id, ok, err := m.store.SessionID()
	if err != nil {
		return fmt.Errorf("reading persisted session: %w", err)
	}
	if ok {
		rec, found, err := m.store.Lookup(id)
		if err != nil {
			return fmt.Errorf("resolving persisted session: %w", err)
		}
		if found {
			m.current = &model.Identity{ID: id, Profile: rec.Profile}
		} else {
			m.log.Info("clearing stale session reference", "id", id)
			if err := m.store.ClearSession(); err != nil {
				return fmt.Errorf("clearing stale session: %w", err)
			}
		}
	}

	m.restored = true
	return nil
}

// Restored reports whether Restore has completed. Consumers must not hydrate
// a ledger before this is true.
func (m *Manager) Restored() bool {
	return m.restored
}

// Current returns the active identity, if any.
func (m *Manager) Current() (*model.Identity, bool) {
	if m.current == nil {
		return nil, false
	}
	ident := *m.current
	return &ident, true
}

// SignIn authenticates against an existing record or implicitly registers a
// new one, merges any guest expenses into the account, persists the merged
// record, and activates the session. The only failure that reaches the user
// is a wrong password, and it leaves every piece of state untouched.
func (m *Manager) SignIn(in SignInInput, password string) (SignInResult, error) {
	if !m.restored {
		return SignInResult{}, ErrNotRestored
	}

	email := auth.NormalizeEmail(in.Email)
	id := auth.DeriveID(email)
	hash := auth.HashCredential(password, email)

	existing, found, err := m.store.Lookup(id)
	if err != nil {
		return SignInResult{}, fmt.Errorf("looking up account: %w", err)
	}
	if found && existing.Profile.CredentialHash != hash {
		return SignInResult{}, ErrAuthentication
	}

	guest := m.guestSource()
	merged, imported := mergeGuest(existing.Expenses, guest)

	budget := existing.Budget
	if !found {
		budget = decimal.Zero
	}

	rec := model.StoredRecord{
		Profile: model.Profile{
			Name:           in.Name,
			Email:          email,
			AvatarColor:    in.AvatarColor,
			AvatarInitials: in.AvatarInitials,
			CredentialHash: hash,
		},
		Expenses: merged,
		Budget:   budget,
	}

	evicted, err := m.store.Save(id, rec)
	if err != nil {
		return SignInResult{}, fmt.Errorf("persisting account: %w", err)
	}
	if evicted != "" {
		m.log.Info("registry at capacity, evicted oldest identity", "evicted", evicted)
	}

	if err := m.store.SetSessionID(id); err != nil {
		return SignInResult{}, fmt.Errorf("persisting session: %w", err)
	}

	m.current = &model.Identity{ID: id, Profile: rec.Profile}
	m.log.Info("signed in", "id", id, "registered", !found, "imported", imported)

	return SignInResult{
		Identity:   *m.current,
		Record:     rec,
		Registered: !found,
		Imported:   imported,
		Considered: len(guest),
	}, nil
}

// SignOut clears the persisted session id and deactivates the identity.
// Stored account data is untouched.
func (m *Manager) SignOut() error {
	if !m.restored {
		return ErrNotRestored
	}
	if err := m.store.ClearSession(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.current = nil
	return nil
}

// mergeGuest prepends guest expenses whose ids are not already present,
// preserving the guest collection's newest-first order. Re-merging the same
// guest data is a no-op.
func mergeGuest(existing, guest []model.Expense) ([]model.Expense, int) {
	present := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		present[e.ID] = struct{}{}
	}

	var fresh []model.Expense
	for _, g := range guest {
		if _, ok := present[g.ID]; !ok {
			fresh = append(fresh, g)
		}
	}

	merged := make([]model.Expense, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)
	return merged, len(fresh)
}
