package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Profile holds the display fields and credential hash for one account.
type Profile struct {
	Name           string
	Email          string
	AvatarColor    string
	AvatarInitials string
	CredentialHash string
}

// Validate rejects profiles that cannot be persisted.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is empty")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("profile email is empty")
	}
	return nil
}

// Identity is a registered account: a stable id derived from the normalized
// email plus the profile stored under it.
type Identity struct {
	ID      string
	Profile Profile
}

// StoredRecord is the atomic persistence unit for one identity. Profile,
// expenses and budget are always written and read together.
type StoredRecord struct {
	Profile  Profile
	Expenses []Expense
	Budget   decimal.Decimal
}

// Clone returns a deep copy so callers can mutate freely.
func (r StoredRecord) Clone() StoredRecord {
	out := r
	out.Expenses = make([]Expense, len(r.Expenses))
	copy(out.Expenses, r.Expenses)
	return out
}
