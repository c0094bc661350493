package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	kvSession     = "session"
	kvGuestBudget = "guest_budget"
)

// SQLite is the durable Store backend.
type SQLite struct {
	db  *sql.DB
	cap int
}

// Open opens or creates the database at dbPath and applies migrations.
// cap bounds the registry; pass DefaultCap outside tests.
func Open(dbPath string, cap int) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	return &SQLite{db: db, cap: cap}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Lookup returns the record stored under id, or ok=false when absent.
func (s *SQLite) Lookup(id string) (model.StoredRecord, bool, error) {
	var rec model.StoredRecord
	var budget string

	row := s.db.QueryRow(`SELECT name, email, avatar_color, avatar_initials, credential_hash, budget
		FROM identities WHERE id = ?`, id)
	err := row.Scan(&rec.Profile.Name, &rec.Profile.Email, &rec.Profile.AvatarColor,
		&rec.Profile.AvatarInitials, &rec.Profile.CredentialHash, &budget)
	if err == sql.ErrNoRows {
		return model.StoredRecord{}, false, nil
	}
	if err != nil {
		return model.StoredRecord{}, false, fmt.Errorf("lookup identity: %w", err)
	}

	rec.Budget, err = decimal.NewFromString(budget)
	if err != nil {
		return model.StoredRecord{}, false, fmt.Errorf("stored budget %q is malformed: %w", budget, err)
	}

	rec.Expenses, err = s.expensesFor(id)
	if err != nil {
		return model.StoredRecord{}, false, err
	}
	return rec, true, nil
}

// Save writes the whole record under id in one transaction. New ids are
// appended to the registry; at capacity the oldest entry and its record are
// dropped first and the evicted id is returned.
func (s *SQLite) Save(id string, rec model.StoredRecord) (string, error) {
	if err := rec.Profile.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM identities WHERE id = ?)`, id).Scan(&exists); err != nil {
		return "", fmt.Errorf("checking registry: %w", err)
	}

	var evicted string
	now := time.Now().UTC().Format(time.RFC3339)

	if exists {
		_, err = tx.Exec(`UPDATE identities SET name = ?, email = ?, avatar_color = ?,
			avatar_initials = ?, credential_hash = ?, budget = ?, updated_at = ?
			WHERE id = ?`,
			rec.Profile.Name, rec.Profile.Email, rec.Profile.AvatarColor,
			rec.Profile.AvatarInitials, rec.Profile.CredentialHash,
			rec.Budget.String(), now, id)
		if err != nil {
			return "", fmt.Errorf("updating identity: %w", err)
		}
	} else {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
			return "", fmt.Errorf("counting registry: %w", err)
		}
		if count >= s.cap {
			var oldest string
			if err := tx.QueryRow(`SELECT id FROM identities ORDER BY position LIMIT 1`).Scan(&oldest); err != nil {
				return "", fmt.Errorf("finding oldest identity: %w", err)
			}
			if err := deleteIdentityTx(tx, oldest); err != nil {
				return "", err
			}
			evicted = oldest
		}

		_, err = tx.Exec(`INSERT INTO identities
			(id, position, name, email, avatar_color, avatar_initials, credential_hash, budget, updated_at)
			VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM identities), ?, ?, ?, ?, ?, ?, ?)`,
			id, rec.Profile.Name, rec.Profile.Email, rec.Profile.AvatarColor,
			rec.Profile.AvatarInitials, rec.Profile.CredentialHash,
			rec.Budget.String(), now)
		if err != nil {
			return "", fmt.Errorf("inserting identity: %w", err)
		}
	}

	if err := replaceExpensesTx(tx, id, rec.Expenses); err != nil {
		return "", err
	}

	return evicted, tx.Commit()
}

// Delete removes id from the registry and drops its record.
func (s *SQLite) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM identities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(`DELETE FROM expenses WHERE owner = ?`, id); err != nil {
		return fmt.Errorf("deleting expenses: %w", err)
	}
	return tx.Commit()
}

// Count returns the registry length.
func (s *SQLite) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM identities`).Scan(&count)
	return count, err
}

// Registry returns identity ids in registration order, oldest first.
func (s *SQLite) Registry() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM identities ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SessionID returns the persisted session id, if set.
func (s *SQLite) SessionID() (string, bool, error) {
	var id string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, kvSession).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && id == "") {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading session: %w", err)
	}
	return id, true, nil
}

// SetSessionID persists the active identity id.
func (s *SQLite) SetSessionID(id string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv (k, v) VALUES (?, ?)`, kvSession, id)
	return err
}

// ClearSession removes the persisted session id.
func (s *SQLite) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, kvSession)
	return err
}

// GuestExpenses returns the persisted guest ledger.
func (s *SQLite) GuestExpenses() ([]model.Expense, error) {
	return s.expensesFor(GuestOwner)
}

// SaveGuestExpenses replaces the persisted guest ledger.
func (s *SQLite) SaveGuestExpenses(expenses []model.Expense) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceExpensesTx(tx, GuestOwner, expenses); err != nil {
		return err
	}
	return tx.Commit()
}

// GuestBudget returns the persisted guest budget, zero when unset.
func (s *SQLite) GuestBudget() (decimal.Decimal, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, kvGuestBudget).Scan(&v)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading guest budget: %w", err)
	}
	budget, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored guest budget %q is malformed: %w", v, err)
	}
	return budget, nil
}

// SetGuestBudget persists the guest budget.
func (s *SQLite) SetGuestBudget(budget decimal.Decimal) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv (k, v) VALUES (?, ?)`, kvGuestBudget, budget.String())
	return err
}

func (s *SQLite) expensesFor(owner string) ([]model.Expense, error) {
	rows, err := s.db.Query(`SELECT id, title, amount, date, category, description, created_at, updated_at
		FROM expenses WHERE owner = ? ORDER BY position`, owner)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		var amount, date, category, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.Title, &amount, &date, &category, &e.Description, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %s: malformed amount %q: %w", e.ID, amount, err)
		}
		if e.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		if e.Category, err = model.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func deleteIdentityTx(tx *sql.Tx, id string) error {
	if _, err := tx.Exec(`DELETE FROM identities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("evicting identity: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM expenses WHERE owner = ?`, id); err != nil {
		return fmt.Errorf("evicting expenses: %w", err)
	}
	return nil
}

func replaceExpensesTx(tx *sql.Tx, owner string, expenses []model.Expense) error {
	if _, err := tx.Exec(`DELETE FROM expenses WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("clearing expenses: %w", err)
	}
	for i, e := range expenses {
		_, err := tx.Exec(`INSERT INTO expenses
			(id, owner, position, title, amount, date, category, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, owner, i, e.Title, e.Amount.String(), e.Date.String(), string(e.Category),
			e.Description, e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting expense %s: %w", e.ID, err)
		}
	}
	return nil
}
