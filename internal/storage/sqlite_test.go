package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetros/billfold/internal/model"
)

// Helper to create a test store with the schema in place.
func createTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err, "failed to open store")

	ctx := context.Background()
	if !store.CreateSchema(ctx) {
		_ = store.Close()
		t.Fatal("failed to create schema")
	}

	return store, func() { _ = store.Close() }
}

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestOpen(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

		store, err := Open(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.NotNil(t, store.IncomeCategories())
		assert.NotNil(t, store.ExpenseCategories())
		assert.NotNil(t, store.Income())
		assert.NotNil(t, store.Expenses())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := Open("")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("rejects whitespace path", func(t *testing.T) {
		_, err := Open("   ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestCreateSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("creates all four tables", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()

		// Each table answers a count query once the schema exists.
		assert.Equal(t, 0, store.IncomeCategories().Count(ctx))
		assert.Equal(t, 0, store.ExpenseCategories().Count(ctx))
		assert.Equal(t, 0, store.Income().Count(ctx))
		assert.Equal(t, 0, store.Expenses().Count(ctx))
	})

	t.Run("is idempotent", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()

		cat := model.NewCategory("Salary", "Monthly pay")
		_, err := store.IncomeCategories().Insert(ctx, cat)
		require.NoError(t, err)

		// Running the bootstrap again must not drop existing data.
		assert.True(t, store.CreateSchema(ctx))
		assert.Equal(t, 1, store.IncomeCategories().Count(ctx))
	})

	t.Run("spaces are isolated", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()

		_, err := store.IncomeCategories().Insert(ctx, model.NewCategory("Salary", ""))
		require.NoError(t, err)

		assert.Equal(t, 1, store.IncomeCategories().Count(ctx))
		assert.Equal(t, 0, store.ExpenseCategories().Count(ctx))
	})
}
