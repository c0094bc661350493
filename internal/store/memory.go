package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// Memory is an in-memory Store with the same semantics as SQLite. It backs
// tests and degraded operation after a storage failure.
type Memory struct {
	cap      int
	registry []string // registration order, oldest first
	records  map[string]model.StoredRecord
	session  string
	guest    []model.Expense
	guestBud decimal.Decimal
}

// NewMemory creates an empty in-memory store with the given registry cap.
func NewMemory(cap int) *Memory {
	return &Memory{
		cap:     cap,
		records: make(map[string]model.StoredRecord),
	}
}

func (m *Memory) Lookup(id string) (model.StoredRecord, bool, error) {
	rec, ok := m.records[id]
	if !ok {
		return model.StoredRecord{}, false, nil
	}
	return rec.Clone(), true, nil
}

func (m *Memory) Save(id string, rec model.StoredRecord) (string, error) {
	if err := rec.Profile.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var evicted string
	if _, exists := m.records[id]; !exists {
		if len(m.registry) >= m.cap {
			evicted = m.registry[0]
			m.registry = m.registry[1:]
			delete(m.records, evicted)
		}
		m.registry = append(m.registry, id)
	}
	m.records[id] = rec.Clone()
	return evicted, nil
}

func (m *Memory) Delete(id string) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	for i, rid := range m.registry {
		if rid == id {
			m.registry = append(m.registry[:i], m.registry[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Count() (int, error) {
	return len(m.registry), nil
}

func (m *Memory) Registry() ([]string, error) {
	out := make([]string, len(m.registry))
	copy(out, m.registry)
	return out, nil
}

func (m *Memory) SessionID() (string, bool, error) {
	return m.session, m.session != "", nil
}

func (m *Memory) SetSessionID(id string) error {
	m.session = id
	return nil
}

func (m *Memory) ClearSession() error {
	m.session = ""
	return nil
}

func (m *Memory) GuestExpenses() ([]model.Expense, error) {
	out := make([]model.Expense, len(m.guest))
	copy(out, m.guest)
	return out, nil
}

func (m *Memory) SaveGuestExpenses(expenses []model.Expense) error {
	m.guest = make([]model.Expense, len(expenses))
	copy(m.guest, expenses)
	return nil
}

func (m *Memory) GuestBudget() (decimal.Decimal, error) {
	return m.guestBud, nil
}

func (m *Memory) SetGuestBudget(budget decimal.Decimal) error {
	m.guestBud = budget
	return nil
}

func (m *Memory) Close() error {
	return nil
}
