package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/aggregate"
	"tally/internal/model"
	"tally/internal/session"
	"tally/internal/store"
	"tally/internal/validate"
)

var appNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, st store.Store) *App {
	t.Helper()
	a, err := New(st, nil)
	require.NoError(t, err)
	a.now = func() time.Time { return appNow }
	return a
}

func fields(title, amount, date, category string) validate.Fields {
	return validate.Fields{Title: title, Amount: amount, Date: date, Category: category}
}

func TestSubmitExpenseAddsAndUpdates(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	res, err := a.SubmitExpense("", fields("Coffee", "4.50", "2025-06-14", "food"))
	require.NoError(t, err)
	require.True(t, res.OK)
	require.NotEmpty(t, res.Expense.ID)

	res2, err := a.SubmitExpense(res.Expense.ID, fields("Latte", "5.25", "2025-06-14", "food"))
	require.NoError(t, err)
	require.True(t, res2.OK)
	assert.Equal(t, res.Expense.ID, res2.Expense.ID)
	assert.Equal(t, res.Expense.CreatedAt, res2.Expense.CreatedAt, "edits keep the creation timestamp")

	got := a.Expenses()
	require.Len(t, got, 1)
	assert.Equal(t, "Latte", got[0].Title)
}

func TestSubmitExpenseReturnsFieldErrors(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	res, err := a.SubmitExpense("", fields("", "-1", "later", "nope"))
	require.NoError(t, err, "validation failures are results, not errors")
	assert.False(t, res.OK)
	assert.Contains(t, res.Errors, "title")
	assert.Contains(t, res.Errors, "amount")
	assert.Contains(t, res.Errors, "date")
	assert.Contains(t, res.Errors, "category")
	assert.Empty(t, a.Expenses())
}

func TestSetBudgetRejectsNegative(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	assert.ErrorIs(t, a.SetBudget(decimal.NewFromInt(-1)), ErrNegativeBudget)
	require.NoError(t, a.SetBudget(decimal.Zero), "zero means unset and is allowed")
	require.NoError(t, a.SetBudget(decimal.NewFromInt(500)))
	assert.True(t, a.Budget().Equal(decimal.NewFromInt(500)))
}

func TestGuestImportScenario(t *testing.T) {
	st := store.NewMemory(10)
	a := newTestApp(t, st)

	// Unauthenticated session records two expenses.
	r1, err := a.SubmitExpense("", fields("Coffee", "4.50", "2025-06-14", "food"))
	require.NoError(t, err)
	r2, err := a.SubmitExpense("", fields("Bus", "2.75", "2025-06-13", "transport"))
	require.NoError(t, err)

	res, err := a.SignIn(session.SignInInput{Name: "Alice", Email: "alice@asu.edu"}, "hunter2x")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	assert.Equal(t, 2, res.Imported)

	got := a.Expenses()
	require.Len(t, got, 2)
	wantIDs := map[string]bool{r1.Expense.ID: true, r2.Expense.ID: true}
	for _, e := range got {
		assert.True(t, wantIDs[e.ID], "unexpected expense %s", e.ID)
	}
}

func TestImportExpensesKeepsFileOrderAndSkipsDuplicates(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	existing, err := a.SubmitExpense("", fields("Already here", "10", "2025-06-10", "food"))
	require.NoError(t, err)

	batch := []model.Expense{
		{ID: "imp-1", Title: "Rent", Amount: decimal.NewFromInt(900), Date: model.NewDate(2025, time.June, 1), Category: model.CategoryHousing},
		{ID: existing.Expense.ID, Title: "Duplicate", Amount: decimal.NewFromInt(1), Date: model.NewDate(2025, time.June, 2), Category: model.CategoryOther},
		{ID: "imp-2", Title: "Bus", Amount: decimal.NewFromInt(3), Date: model.NewDate(2025, time.June, 2), Category: model.CategoryTransport},
	}

	added, err := a.ImportExpenses(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	got := a.Expenses()
	require.Len(t, got, 3)
	assert.Equal(t, "imp-1", got[0].ID, "imported rows keep their file order")
	assert.Equal(t, "imp-2", got[1].ID)
	assert.Equal(t, existing.Expense.ID, got[2].ID)
	assert.Equal(t, "Already here", got[2].Title, "duplicate ids never overwrite")
}

func TestSignInFillsAvatarDefaults(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	res, err := a.SignIn(session.SignInInput{Name: "Alice Walker", Email: "alice@asu.edu"}, "hunter2x")
	require.NoError(t, err)
	assert.Equal(t, "AW", res.Identity.Profile.AvatarInitials)
	assert.NotEmpty(t, res.Identity.Profile.AvatarColor)
}

func TestSignOutSwitchesToGuestLedger(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	_, err := a.SignIn(session.SignInInput{Name: "Alice", Email: "alice@asu.edu"}, "hunter2x")
	require.NoError(t, err)
	_, err = a.SubmitExpense("", fields("Dinner", "30", "2025-06-14", "food"))
	require.NoError(t, err)

	require.NoError(t, a.SignOut())
	_, ok := a.Identity()
	assert.False(t, ok)
	assert.Empty(t, a.Expenses(), "guest ledger starts separate from account data")
}

func TestRestartRestoresAccountLedger(t *testing.T) {
	st := store.NewMemory(10)
	a := newTestApp(t, st)

	_, err := a.SignIn(session.SignInInput{Name: "Alice", Email: "alice@asu.edu"}, "hunter2x")
	require.NoError(t, err)
	_, err = a.SubmitExpense("", fields("Dinner", "30", "2025-06-14", "food"))
	require.NoError(t, err)
	require.NoError(t, a.SetBudget(decimal.NewFromInt(400)))

	// Second App over the same store simulates a process restart.
	b := newTestApp(t, st)
	ident, ok := b.Identity()
	require.True(t, ok)
	assert.Equal(t, "alice@asu.edu", ident.Profile.Email)
	require.Len(t, b.Expenses(), 1)
	assert.True(t, b.Budget().Equal(decimal.NewFromInt(400)))
}

func TestActiveViewAndSummary(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	_, err := a.SubmitExpense("", fields("Grocery run", "80", "2025-06-10", "groceries"))
	require.NoError(t, err)
	_, err = a.SubmitExpense("", fields("Old textbook", "120", "2025-01-20", "education"))
	require.NoError(t, err)

	view := a.ActiveView(aggregate.Query{Category: "groceries"})
	require.Len(t, view, 1)
	assert.Equal(t, "Grocery run", view[0].Title)

	s := a.Summary()
	assert.True(t, s.GrandTotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, s.CurrentMonthTotal.Equal(decimal.NewFromInt(80)))

	require.NoError(t, a.SetBudget(decimal.NewFromInt(100)))
	pct, band := a.Utilization()
	assert.Equal(t, float64(80), pct)
	assert.Equal(t, aggregate.BandWarning, band)
}

func TestWrongPasswordSurfacesAuthenticationError(t *testing.T) {
	a := newTestApp(t, store.NewMemory(10))

	_, err := a.SignIn(session.SignInInput{Name: "Alice", Email: "alice@asu.edu"}, "hunter2x")
	require.NoError(t, err)
	require.NoError(t, a.SignOut())

	_, err = a.SignIn(session.SignInInput{Name: "Alice", Email: "alice@asu.edu"}, "wrong")
	assert.ErrorIs(t, err, session.ErrAuthentication)
}
