package store

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

// failingStore errors on everything, simulating an unavailable database.
type failingStore struct{}

var errDiskGone = errors.New("disk gone")

func (failingStore) Lookup(string) (model.StoredRecord, bool, error) {
	return model.StoredRecord{}, false, errDiskGone
}
func (failingStore) Save(string, model.StoredRecord) (string, error) { return "", errDiskGone }
func (failingStore) Delete(string) error                             { return errDiskGone }
func (failingStore) Count() (int, error)                             { return 0, errDiskGone }
func (failingStore) Registry() ([]string, error)                     { return nil, errDiskGone }
func (failingStore) SessionID() (string, bool, error)                { return "", false, errDiskGone }
func (failingStore) SetSessionID(string) error                       { return errDiskGone }
func (failingStore) ClearSession() error                             { return errDiskGone }
func (failingStore) GuestExpenses() ([]model.Expense, error)         { return nil, errDiskGone }
func (failingStore) SaveGuestExpenses([]model.Expense) error         { return errDiskGone }
func (failingStore) GuestBudget() (decimal.Decimal, error)           { return decimal.Zero, errDiskGone }
func (failingStore) SetGuestBudget(decimal.Decimal) error            { return errDiskGone }
func (failingStore) Close() error                                    { return nil }

func TestFallbackDegradesToMemory(t *testing.T) {
	f := NewFallback(failingStore{}, 10, slog.Default())
	require.False(t, f.Degraded())

	// The first failing operation flips the store to memory-only mode and
	// the operation is retried there instead of erroring out.
	_, err := f.Save("id-a", testRecord("A", "a@example.com"))
	require.NoError(t, err)
	assert.True(t, f.Degraded())

	got, ok, err := f.Lookup("id-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", got.Profile.Name)
}

func TestFallbackPassesThroughWhenHealthy(t *testing.T) {
	f := NewFallback(NewMemory(10), 10, slog.Default())

	_, err := f.Save("id-a", testRecord("A", "a@example.com"))
	require.NoError(t, err)
	assert.False(t, f.Degraded())

	require.NoError(t, f.SetSessionID("id-a"))
	id, ok, err := f.SessionID()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "id-a", id)
}

func TestFallbackDoesNotDegradeOnInvalidRecord(t *testing.T) {
	f := NewFallback(NewMemory(10), 10, slog.Default())

	_, err := f.Save("id-x", model.StoredRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.False(t, f.Degraded(), "caller bugs are not storage failures")
}
