// Package ledger holds the active, mutable expense collection and budget for
// whichever identity is signed in, or an ephemeral guest collection when
// nobody is. Every mutation writes the whole record back through the store,
// so in-memory state is always at least as current as persisted state.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/model"
	"tally/internal/store"
)

// ErrNotFound is returned by Update when no expense matches the given id.
// The source treated this as a silent no-op; surfacing it catches caller
// bugs earlier.
var ErrNotFound = errors.New("ledger: expense not found")

// Ledger is the in-memory working set. Canonical order is newest-first by
// insertion; Add prepends.
type Ledger struct {
	store    store.Store
	log      *slog.Logger
	identity *model.Identity // nil while unauthenticated
	expenses []model.Expense
	budget   decimal.Decimal
}

// New creates an empty ledger in guest mode.
func New(st store.Store, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{store: st, log: log}
}

// Hydrate replaces the working set. With an identity, the collection and
// budget come from the given stored record; with nil, the guest keys are
// loaded best-effort (guest durability is outside the store's contract).
// Called exactly once per session state transition.
func (l *Ledger) Hydrate(identity *model.Identity, rec model.StoredRecord) {
	l.identity = identity
	if identity != nil {
		l.expenses = make([]model.Expense, len(rec.Expenses))
		copy(l.expenses, rec.Expenses)
		l.budget = rec.Budget
		return
	}

	guest, err := l.store.GuestExpenses()
	if err != nil {
		l.log.Warn("guest ledger unavailable, starting empty", "error", err)
		guest = nil
	}
	budget, err := l.store.GuestBudget()
	if err != nil {
		budget = decimal.Zero
	}
	l.expenses = guest
	l.budget = budget
}

// Identity returns the active identity, or nil in guest mode.
func (l *Ledger) Identity() *model.Identity {
	return l.identity
}

// Expenses returns a copy of the collection in canonical (newest-first)
// order.
func (l *Ledger) Expenses() []model.Expense {
	out := make([]model.Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Budget returns the active budget; zero means unset.
func (l *Ledger) Budget() decimal.Decimal {
	return l.budget
}

// Add prepends a validated expense and persists.
func (l *Ledger) Add(e model.Expense) error {
	l.expenses = append([]model.Expense{e}, l.expenses...)
	return l.persist()
}

// AddAll prepends a batch of expenses, keeping the batch's relative order,
// and persists once. An empty batch is a no-op.
func (l *Ledger) AddAll(batch []model.Expense) error {
	if len(batch) == 0 {
		return nil
	}
	merged := make([]model.Expense, 0, len(batch)+len(l.expenses))
	merged = append(merged, batch...)
	merged = append(merged, l.expenses...)
	l.expenses = merged
	return l.persist()
}

// Update replaces the expense with a matching id in place.
func (l *Ledger) Update(e model.Expense) error {
	for i := range l.expenses {
		if l.expenses[i].ID == e.ID {
			l.expenses[i] = e
			return l.persist()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
}

// Remove deletes the expense with the given id; absent ids are a no-op.
func (l *Ledger) Remove(id string) error {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			return l.persist()
		}
	}
	return nil
}

// SetBudget replaces the budget and persists. Non-negativity is the caller's
// check; the ledger stores whatever it is handed.
func (l *Ledger) SetBudget(budget decimal.Decimal) error {
	l.budget = budget
	return l.persist()
}

// persist writes the full current state back. Authenticated state goes
// through Save as one atomic record; guest state goes to the guest keys.
func (l *Ledger) persist() error {
	if l.identity != nil {
		rec := model.StoredRecord{
			Profile:  l.identity.Profile,
			Expenses: l.expenses,
			Budget:   l.budget,
		}
		evicted, err := l.store.Save(l.identity.ID, rec)
		if err != nil {
			return fmt.Errorf("write-back for %s: %w", l.identity.ID, err)
		}
		if evicted != "" {
			l.log.Info("registry at capacity, evicted oldest identity", "evicted", evicted)
		}
		return nil
	}

	if err := l.store.SaveGuestExpenses(l.expenses); err != nil {
		l.log.Warn("guest write-back failed", "error", err)
		return nil
	}
	if err := l.store.SetGuestBudget(l.budget); err != nil {
		l.log.Warn("guest budget write-back failed", "error", err)
	}
	return nil
}
