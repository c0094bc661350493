// Package app wires the session manager, expense ledger, validator and
// aggregation engine behind the surface the CLI and TUI call. Presentation
// never reaches past this facade into the core packages.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tally/internal/aggregate"
	"tally/internal/avatar"
	"tally/internal/ledger"
	"tally/internal/model"
	"tally/internal/session"
	"tally/internal/store"
	"tally/internal/validate"
)

// ErrNegativeBudget is returned by SetBudget for values below zero. The
// ledger itself stores whatever it is handed; the check lives here.
var ErrNegativeBudget = errors.New("budget must be zero or positive")

// SubmitResult reports a validated submit: either OK with the stored
// expense, or the per-field error messages.
type SubmitResult struct {
	OK      bool
	Errors  map[string]string
	Expense model.Expense
}

// App is the single entry point for presentation code. Construct one per
// process; tests build isolated instances over an in-memory store.
type App struct {
	store   store.Store
	session *session.Manager
	ledger  *ledger.Ledger
	log     *slog.Logger
	now     func() time.Time
}

// New restores the persisted session and hydrates the ledger for whichever
// identity (or guest) is active. Restore always runs before hydration.
func New(st store.Store, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	a := &App{store: st, log: log, now: time.Now}
	a.ledger = ledger.New(st, log)

	// The session manager pulls guest expenses through this accessor at
	// sign-in time; it only ever sees guest-mode contents.
	guestSource := func() []model.Expense {
		if a.ledger.Identity() != nil {
			return nil
		}
		return a.ledger.Expenses()
	}
	a.session = session.NewManager(st, guestSource, log)

	if err := a.session.Restore(); err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	a.hydrate()
	return a, nil
}

// hydrate loads the ledger for the current session state.
func (a *App) hydrate() {
	ident, ok := a.session.Current()
	if !ok {
		a.ledger.Hydrate(nil, model.StoredRecord{})
		return
	}
	rec, found, err := a.store.Lookup(ident.ID)
	if err != nil || !found {
		a.log.Warn("hydration lookup failed, starting empty", "id", ident.ID, "error", err)
		rec = model.StoredRecord{}
	}
	a.ledger.Hydrate(ident, rec)
}

// Identity returns the active identity, if any.
func (a *App) Identity() (*model.Identity, bool) {
	return a.session.Current()
}

// Expenses returns the ledger's collection in canonical order.
func (a *App) Expenses() []model.Expense {
	return a.ledger.Expenses()
}

// Budget returns the active budget, zero when unset.
func (a *App) Budget() decimal.Decimal {
	return a.ledger.Budget()
}

// SubmitExpense validates the fields and either adds a new expense (empty
// id) or updates an existing one. Validation failures come back as field
// messages, never as errors.
func (a *App) SubmitExpense(id string, fields validate.Fields) (SubmitResult, error) {
	res := validate.ValidateAt(fields, a.now())
	if !res.Valid {
		return SubmitResult{Errors: res.Errors}, nil
	}

	now := a.now()
	e := model.Expense{
		ID:          id,
		Title:       res.Parsed.Title,
		Amount:      res.Parsed.Amount,
		Date:        res.Parsed.Date,
		Category:    res.Parsed.Category,
		Description: res.Parsed.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if id == "" {
		e.ID = uuid.NewString()
		if err := a.ledger.Add(e); err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{OK: true, Expense: e}, nil
	}

	// Keep the original creation timestamp on edits.
	for _, existing := range a.ledger.Expenses() {
		if existing.ID == id {
			e.CreatedAt = existing.CreatedAt
			break
		}
	}
	if err := a.ledger.Update(e); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{OK: true, Expense: e}, nil
}

// ImportExpenses adds already-parsed expenses to the active ledger, skipping
// ids it already holds. The batch keeps its given order and is persisted in
// one write-back. It returns how many were added.
func (a *App) ImportExpenses(expenses []model.Expense) (int, error) {
	seen := make(map[string]bool)
	for _, e := range a.ledger.Expenses() {
		seen[e.ID] = true
	}

	batch := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		batch = append(batch, e)
	}

	if err := a.ledger.AddAll(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// RequestDelete removes an expense; unknown ids are a no-op.
func (a *App) RequestDelete(id string) error {
	return a.ledger.Remove(id)
}

// SetBudget replaces the monthly budget. Zero means unset.
func (a *App) SetBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return ErrNegativeBudget
	}
	return a.ledger.SetBudget(budget)
}

// ActiveView returns the filtered, sorted read view.
func (a *App) ActiveView(q aggregate.Query) []model.Expense {
	return aggregate.FilterAndSort(a.ledger.Expenses(), q)
}

// Summary returns the derived totals for the active collection.
func (a *App) Summary() aggregate.Summary {
	return aggregate.Totals(a.ledger.Expenses(), a.now())
}

// Utilization returns the current month's budget utilization percentage and
// its classification band.
func (a *App) Utilization() (float64, aggregate.Band) {
	s := a.Summary()
	pct := aggregate.BudgetUtilization(s.CurrentMonthTotal, a.ledger.Budget())
	return pct, aggregate.BandFor(pct)
}

// MonthGroups returns the collection grouped by calendar month.
func (a *App) MonthGroups() []aggregate.MonthGroup {
	return aggregate.GroupByMonth(a.ledger.Expenses())
}

// MonthlyBuckets returns per-month totals over the window.
func (a *App) MonthlyBuckets(w aggregate.Window) []aggregate.MonthBucket {
	return aggregate.MonthlyBuckets(a.ledger.Expenses(), w, a.now())
}

// CategoryBuckets returns per-category totals over the window.
func (a *App) CategoryBuckets(w aggregate.Window) []aggregate.CategoryBucket {
	return aggregate.CategoryBuckets(a.ledger.Expenses(), w, a.now())
}

// SignIn authenticates or registers, imports guest expenses, and rehydrates
// the ledger onto the account.
func (a *App) SignIn(in session.SignInInput, password string) (session.SignInResult, error) {
	if in.AvatarInitials == "" {
		in.AvatarInitials = avatar.Initials(in.Name, in.Email)
	}
	if in.AvatarColor == "" {
		in.AvatarColor = avatar.AccentColor(in.Email)
	}

	res, err := a.session.SignIn(in, password)
	if err != nil {
		return session.SignInResult{}, err
	}
	a.ledger.Hydrate(&res.Identity, res.Record)
	return res, nil
}

// SignOut clears the session and rehydrates the ledger in guest mode.
func (a *App) SignOut() error {
	if err := a.session.SignOut(); err != nil {
		return err
	}
	a.hydrate()
	return nil
}

// RegisteredCount returns the registry length.
func (a *App) RegisteredCount() (int, error) {
	return a.store.Count()
}

// RegisteredIdentities returns every stored identity in registration order.
func (a *App) RegisteredIdentities() ([]model.Identity, error) {
	ids, err := a.store.Registry()
	if err != nil {
		return nil, err
	}
	out := make([]model.Identity, 0, len(ids))
	for _, id := range ids {
		rec, ok, err := a.store.Lookup(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, model.Identity{ID: id, Profile: rec.Profile})
	}
	return out, nil
}

// Degraded reports whether storage has failed over to memory-only operation.
func (a *App) Degraded() bool {
	if f, ok := a.store.(*store.Fallback); ok {
		return f.Degraded()
	}
	return false
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}
