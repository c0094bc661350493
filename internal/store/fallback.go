package store

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// Fallback wraps a durable Store and degrades to an in-memory one after the
// first storage error. The process keeps working on in-memory state for the
// rest of the session; the failure is logged once, never surfaced as a crash.
type Fallback struct {
	primary  Store
	memory   *Memory
	degraded bool
	log      *slog.Logger
}

// NewFallback wraps primary with degrade-to-memory behavior. The memory
// store uses the same cap.
func NewFallback(primary Store, cap int, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{primary: primary, memory: NewMemory(cap), log: log}
}

// Degraded reports whether a storage failure has switched the store to
// memory-only operation.
func (f *Fallback) Degraded() bool {
	return f.degraded
}

func (f *Fallback) active() Store {
	if f.degraded {
		return f.memory
	}
	return f.primary
}

// degrade records the failure and switches to the memory store.
func (f *Fallback) degrade(op string, err error) {
	f.log.Warn("storage unavailable, continuing in-memory only",
		"op", op, "error", err)
	f.degraded = true
}

func (f *Fallback) Lookup(id string) (model.StoredRecord, bool, error) {
	rec, ok, err := f.active().Lookup(id)
	if err != nil && !f.degraded {
		f.degrade("lookup", err)
		return f.memory.Lookup(id)
	}
	return rec, ok, err
}

func (f *Fallback) Save(id string, rec model.StoredRecord) (string, error) {
	evicted, err := f.active().Save(id, rec)
	if err != nil && !errors.Is(err, ErrInvalidRecord) && !f.degraded {
		f.degrade("save", err)
		return f.memory.Save(id, rec)
	}
	return evicted, err
}

func (f *Fallback) Delete(id string) error {
	err := f.active().Delete(id)
	if err != nil && err != ErrNotFound && !f.degraded {
		f.degrade("delete", err)
		return f.memory.Delete(id)
	}
	return err
}

func (f *Fallback) Count() (int, error) {
	n, err := f.active().Count()
	if err != nil && !f.degraded {
		f.degrade("count", err)
		return f.memory.Count()
	}
	return n, err
}

func (f *Fallback) Registry() ([]string, error) {
	ids, err := f.active().Registry()
	if err != nil && !f.degraded {
		f.degrade("registry", err)
		return f.memory.Registry()
	}
	return ids, err
}

func (f *Fallback) SessionID() (string, bool, error) {
	id, ok, err := f.active().SessionID()
	if err != nil && !f.degraded {
		f.degrade("session_read", err)
		return f.memory.SessionID()
	}
	return id, ok, err
}

func (f *Fallback) SetSessionID(id string) error {
	err := f.active().SetSessionID(id)
	if err != nil && !f.degraded {
		f.degrade("session_write", err)
		return f.memory.SetSessionID(id)
	}
	return err
}

func (f *Fallback) ClearSession() error {
	err := f.active().ClearSession()
	if err != nil && !f.degraded {
		f.degrade("session_clear", err)
		return f.memory.ClearSession()
	}
	return err
}

func (f *Fallback) GuestExpenses() ([]model.Expense, error) {
	expenses, err := f.active().GuestExpenses()
	if err != nil && !f.degraded {
		f.degrade("guest_read", err)
		return f.memory.GuestExpenses()
	}
	return expenses, err
}

func (f *Fallback) SaveGuestExpenses(expenses []model.Expense) error {
	err := f.active().SaveGuestExpenses(expenses)
	if err != nil && !f.degraded {
		f.degrade("guest_write", err)
		return f.memory.SaveGuestExpenses(expenses)
	}
	return err
}

func (f *Fallback) GuestBudget() (decimal.Decimal, error) {
	budget, err := f.active().GuestBudget()
	if err != nil && !f.degraded {
		f.degrade("guest_budget_read", err)
		return f.memory.GuestBudget()
	}
	return budget, err
}

func (f *Fallback) SetGuestBudget(budget decimal.Decimal) error {
	err := f.active().SetGuestBudget(budget)
	if err != nil && !f.degraded {
		f.degrade("guest_budget_write", err)
		return f.memory.SetGuestBudget(budget)
	}
	return err
}

func (f *Fallback) Close() error {
	return f.primary.Close()
}
