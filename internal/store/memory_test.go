package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

func TestMemoryFIFOEviction(t *testing.T) {
	m := NewMemory(200)

	for i := 1; i <= 201; i++ {
		id := fmt.Sprintf("id-%03d", i)
		_, err := m.Save(id, testRecord(fmt.Sprintf("User %d", i), fmt.Sprintf("u%d@example.com", i)))
		require.NoError(t, err)
	}

	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 200, n)

	_, ok, err := m.Lookup("id-001")
	require.NoError(t, err)
	assert.False(t, ok, "first registration evicted")

	ids, err := m.Registry()
	require.NoError(t, err)
	require.Len(t, ids, 200)
	assert.Equal(t, "id-002", ids[0])
	assert.Equal(t, "id-201", ids[199])
}

func TestMemoryLookupReturnsCopy(t *testing.T) {
	m := NewMemory(10)

	rec := testRecord("A", "a@example.com")
	rec.Expenses = []model.Expense{testExpense("e1", "Lunch", 12)}
	_, err := m.Save("id-a", rec)
	require.NoError(t, err)

	got, ok, err := m.Lookup("id-a")
	require.NoError(t, err)
	require.True(t, ok)
	got.Expenses[0].Title = "mutated"

	again, _, err := m.Lookup("id-a")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", again.Expenses[0].Title, "stored record must not alias caller slices")
}

func TestMemoryDeleteKeepsRegistryConsistent(t *testing.T) {
	m := NewMemory(10)

	for _, id := range []string{"a", "b", "c"} {
		_, err := m.Save(id, testRecord(id, id+"@example.com"))
		require.NoError(t, err)
	}

	require.NoError(t, m.Delete("b"))
	ids, err := m.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	assert.ErrorIs(t, m.Delete("b"), ErrNotFound)
}
