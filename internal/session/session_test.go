package session

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/auth"
	"tally/internal/model"
	"tally/internal/store"
)

func guestExpense(id string) model.Expense {
	now := time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)
	return model.Expense{
		ID:        id,
		Title:     "Guest " + id,
		Amount:    decimal.NewFromInt(9),
		Date:      model.NewDate(2025, time.May, 5),
		Category:  model.CategoryOther,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func aliceInput() SignInInput {
	return SignInInput{
		Name:           "Alice",
		Email:          "alice@asu.edu",
		AvatarColor:    "#3AA99F",
		AvatarInitials: "A",
	}
}

func restoredManager(t *testing.T, st store.Store, guest GuestSource) *Manager {
	t.Helper()
	m := NewManager(st, guest, nil)
	if err := m.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	return m
}

func TestSignInRegistersNewAccount(t *testing.T) {
	st := store.NewMemory(10)
	m := restoredManager(t, st, nil)

	res, err := m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !res.Registered {
		t.Fatal("first sign-in must register")
	}

	if _, ok := m.Current(); !ok {
		t.Fatal("expected authenticated state")
	}

	n, _ := st.Count()
	if n != 1 {
		t.Fatalf("registry count = %d, want 1", n)
	}

	// Same email and password signs in again without registering.
	res, err = m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if res.Registered {
		t.Fatal("existing account must not re-register")
	}
}

func TestSignInWrongPasswordChangesNothing(t *testing.T) {
	st := store.NewMemory(10)
	m := restoredManager(t, st, nil)

	if _, err := m.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	before, _, _ := st.Lookup(auth.DeriveID("alice@asu.edu"))

	_, err := m.SignIn(aliceInput(), "wrong")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}

	if _, ok := m.Current(); ok {
		t.Fatal("failed sign-in must not authenticate")
	}
	if _, ok, _ := st.SessionID(); ok {
		t.Fatal("failed sign-in must not persist a session")
	}

	after, _, _ := st.Lookup(auth.DeriveID("alice@asu.edu"))
	if before.Profile != after.Profile {
		t.Fatal("failed sign-in must leave the stored record unchanged")
	}
}

func TestSignInNormalizesEmail(t *testing.T) {
	st := store.NewMemory(10)
	m := restoredManager(t, st, nil)

	if _, err := m.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	in := aliceInput()
	in.Email = "  ALICE@ASU.EDU "
	res, err := m.SignIn(in, "hunter2x")
	if err != nil {
		t.Fatalf("SignIn with unnormalized email: %v", err)
	}
	if res.Registered {
		t.Fatal("case/whitespace variants must collide to the same account")
	}

	n, _ := st.Count()
	if n != 1 {
		t.Fatalf("registry count = %d, want 1", n)
	}
}

func TestSignInImportsGuestExpenses(t *testing.T) {
	st := store.NewMemory(10)
	guest := []model.Expense{guestExpense("e1"), guestExpense("e2")}
	m := restoredManager(t, st, func() []model.Expense { return guest })

	res, err := m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.Imported != 2 || res.Considered != 2 {
		t.Fatalf("imported=%d considered=%d, want 2/2", res.Imported, res.Considered)
	}
	if len(res.Record.Expenses) != 2 {
		t.Fatalf("account has %d expenses, want exactly the guest pair", len(res.Record.Expenses))
	}
	if res.Record.Expenses[0].ID != "e1" || res.Record.Expenses[1].ID != "e2" {
		t.Fatalf("guest order not preserved: %s, %s", res.Record.Expenses[0].ID, res.Record.Expenses[1].ID)
	}
}

func TestGuestMergeIsIdempotent(t *testing.T) {
	st := store.NewMemory(10)
	guest := []model.Expense{guestExpense("e1"), guestExpense("e2")}
	m := restoredManager(t, st, func() []model.Expense { return guest })

	if _, err := m.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatalf("first SignIn: %v", err)
	}
	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	res, err := m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if res.Imported != 0 {
		t.Fatalf("second sign-in imported %d, want 0", res.Imported)
	}
	if res.Considered != 2 {
		t.Fatalf("second sign-in considered %d, want 2", res.Considered)
	}
	if len(res.Record.Expenses) != 2 {
		t.Fatalf("account has %d expenses after re-merge, want 2", len(res.Record.Expenses))
	}
}

func TestGuestMergePrependsToExistingCollection(t *testing.T) {
	st := store.NewMemory(10)
	guest := []model.Expense{guestExpense("g1")}
	m := restoredManager(t, st, func() []model.Expense { return guest })

	// Seed the account with one expense, no guest data yet.
	noGuest := NewManager(st, nil, nil)
	if err := noGuest.Restore(); err != nil {
		t.Fatal(err)
	}
	if _, err := noGuest.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatal(err)
	}
	id := auth.DeriveID("alice@asu.edu")
	rec, _, _ := st.Lookup(id)
	rec.Expenses = []model.Expense{guestExpense("old")}
	if _, err := st.Save(id, rec); err != nil {
		t.Fatal(err)
	}

	res, err := m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(res.Record.Expenses) != 2 {
		t.Fatalf("merged count = %d", len(res.Record.Expenses))
	}
	if res.Record.Expenses[0].ID != "g1" || res.Record.Expenses[1].ID != "old" {
		t.Fatalf("guest expense must be prepended, got %s then %s",
			res.Record.Expenses[0].ID, res.Record.Expenses[1].ID)
	}
}

func TestSignInPreservesBudget(t *testing.T) {
	st := store.NewMemory(10)
	m := restoredManager(t, st, nil)

	if _, err := m.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatal(err)
	}
	id := auth.DeriveID("alice@asu.edu")
	rec, _, _ := st.Lookup(id)
	rec.Budget = decimal.NewFromInt(1234)
	if _, err := st.Save(id, rec); err != nil {
		t.Fatal(err)
	}

	res, err := m.SignIn(aliceInput(), "hunter2x")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Record.Budget.Equal(decimal.NewFromInt(1234)) {
		t.Fatalf("budget = %s, sign-in must not touch it", res.Record.Budget)
	}
}

func TestRestoreResolvesPersistedSession(t *testing.T) {
	st := store.NewMemory(10)

	first := restoredManager(t, st, nil)
	if _, err := first.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatal(err)
	}

	// A new manager over the same store simulates process restart.
	second := NewManager(st, nil, nil)
	if second.Restored() {
		t.Fatal("manager must start unrestored")
	}
	if err := second.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	ident, ok := second.Current()
	if !ok {
		t.Fatal("expected restored authenticated session")
	}
	if ident.Profile.Email != "alice@asu.edu" {
		t.Fatalf("restored identity = %+v", ident)
	}
}

func TestRestoreClearsDanglingReference(t *testing.T) {
	st := store.NewMemory(10)
	if err := st.SetSessionID("ghost"); err != nil {
		t.Fatal(err)
	}

	m := NewManager(st, nil, nil)
	if err := m.Restore(); err != nil {
		t.Fatalf("dangling session must self-heal, got %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("dangling reference must not authenticate")
	}
	if _, ok, _ := st.SessionID(); ok {
		t.Fatal("dangling reference must be cleared from the store")
	}
}

func TestTransitionsRequireRestore(t *testing.T) {
	m := NewManager(store.NewMemory(10), nil, nil)

	if _, err := m.SignIn(aliceInput(), "pw"); !errors.Is(err, ErrNotRestored) {
		t.Fatalf("SignIn before restore: %v", err)
	}
	if err := m.SignOut(); !errors.Is(err, ErrNotRestored) {
		t.Fatalf("SignOut before restore: %v", err)
	}
}

func TestSignOutKeepsStoredData(t *testing.T) {
	st := store.NewMemory(10)
	m := restoredManager(t, st, nil)

	if _, err := m.SignIn(aliceInput(), "hunter2x"); err != nil {
		t.Fatal(err)
	}
	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("expected unauthenticated state")
	}
	if _, found, _ := st.Lookup(auth.DeriveID("alice@asu.edu")); !found {
		t.Fatal("sign-out must not delete account data")
	}
}
