package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apetros/billfold/internal/storage"
)

// Helpers building services over a real throwaway database.

func createTestStore(t *testing.T) *storage.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.Open(dbPath)
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() { _ = store.Close() })

	require.True(t, store.CreateSchema(context.Background()), "failed to create schema")
	return store
}

func newCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	return NewCategoryService(createTestStore(t).ExpenseCategories())
}

// newTransactionService returns a transaction service plus its sibling
// category service, both bound to the expense space of one database.
func newTransactionService(t *testing.T) (*TransactionService, *CategoryService) {
	t.Helper()
	store := createTestStore(t)
	return NewTransactionService(store.Expenses()), NewCategoryService(store.ExpenseCategories())
}

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}
