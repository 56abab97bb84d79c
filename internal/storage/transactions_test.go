package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetros/billfold/internal/model"
)

// seedCategory inserts a category into the expense space and returns it with
// its generated id.
func seedCategory(t *testing.T, store *Store, name string) model.Category {
	t.Helper()
	ctx := context.Background()

	cat := model.NewCategory(name, "")
	id, err := store.ExpenseCategories().Insert(ctx, cat)
	require.NoError(t, err)
	cat.ID = id
	return *cat
}

func TestTransactionStoreInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("insert and read back with category", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		cat := seedCategory(t, store, "Groceries")

		txn := model.NewTransaction("Weekly shop", "market run", testDate(10), 1250, cat)
		id, err := store.Expenses().Insert(ctx, txn)
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))

		got, err := store.Expenses().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Weekly shop", got.Name)
		assert.Equal(t, "market run", got.Description)
		assert.Equal(t, int64(1250), got.Amount)
		assert.True(t, got.Date.Equal(testDate(10)))
		assert.Equal(t, cat.ID, got.Category.ID, "the category is joined eagerly")
		assert.Equal(t, "Groceries", got.Category.Name)
	})

	t.Run("duplicate names are allowed", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		cat := seedCategory(t, store, "Groceries")

		_, err := store.Expenses().Insert(ctx, model.NewTransaction("Shop", "", testDate(1), 100, cat))
		require.NoError(t, err)
		_, err = store.Expenses().Insert(ctx, model.NewTransaction("Shop", "", testDate(2), 200, cat))
		require.NoError(t, err)

		assert.Equal(t, 2, store.Expenses().Count(ctx))
	})

	t.Run("unknown category id violates the foreign key", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()

		orphan := model.Category{ID: 999, Name: "Ghost"}
		_, err := store.Expenses().Insert(ctx, model.NewTransaction("Shop", "", testDate(1), 100, orphan))
		assert.ErrorIs(t, err, ErrQueryFailed)
	})
}

func TestTransactionStoreGet(t *testing.T) {
	ctx := context.Background()

	store, cleanup := createTestStore(t)
	defer cleanup()

	_, err := store.Expenses().Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionStoreOrdering(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *Store) model.Category {
		t.Helper()
		cat := seedCategory(t, store, "Groceries")
		// Inserted out of date order on purpose.
		for _, d := range []int{15, 5, 25} {
			_, err := store.Expenses().Insert(ctx,
				model.NewTransaction("Shop", "", testDate(d), int64(d*100), cat))
			require.NoError(t, err)
		}
		return cat
	}

	days := func(txns []model.Transaction) []int {
		out := make([]int, len(txns))
		for i, txn := range txns {
			out[i] = txn.Date.Day()
		}
		return out
	}

	t.Run("all ascending by date", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		got, err := store.Expenses().All(ctx, OrderAsc)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 15, 25}, days(got))
	})

	t.Run("all descending by date", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		got, err := store.Expenses().All(ctx, OrderDesc)
		require.NoError(t, err)
		assert.Equal(t, []int{25, 15, 5}, days(got))
	})

	t.Run("latest n", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		got, err := store.Expenses().Latest(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{25, 15}, days(got))
	})

	t.Run("latest since is inclusive", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		got, err := store.Expenses().LatestSince(ctx, testDate(15))
		require.NoError(t, err)
		assert.Equal(t, []int{25, 15}, days(got))
	})

	t.Run("latest all", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		got, err := store.Expenses().LatestAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{25, 15, 5}, days(got))
	})
}

func TestTransactionStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("matches by id", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		groceries := seedCategory(t, store, "Groceries")
		dining := seedCategory(t, store, "Dining")

		txn := model.NewTransaction("Shop", "", testDate(10), 1000, groceries)
		id, err := store.Expenses().Insert(ctx, txn)
		require.NoError(t, err)
		txn.ID = id

		updated := model.NewTransaction("Dinner", "birthday", testDate(12), 4500, dining)
		require.NoError(t, store.Expenses().Update(ctx, txn, updated))

		got, err := store.Expenses().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Dinner", got.Name)
		assert.Equal(t, "birthday", got.Description)
		assert.Equal(t, int64(4500), got.Amount)
		assert.True(t, got.Date.Equal(testDate(12)))
		assert.Equal(t, dining.ID, got.Category.ID)
	})

	t.Run("no matching row rolls back", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		cat := seedCategory(t, store, "Groceries")

		missing := model.NewTransaction("Shop", "", testDate(1), 100, cat)
		missing.ID = 42
		err := store.Expenses().Update(ctx, missing,
			model.NewTransaction("Other", "", testDate(2), 200, cat))
		assert.ErrorIs(t, err, ErrQueryFailed)
	})
}

func TestTransactionStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete by id", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		cat := seedCategory(t, store, "Groceries")

		txn := model.NewTransaction("Shop", "", testDate(1), 100, cat)
		id, err := store.Expenses().Insert(ctx, txn)
		require.NoError(t, err)
		txn.ID = id

		require.NoError(t, store.Expenses().Delete(ctx, txn))
		assert.Equal(t, 0, store.Expenses().Count(ctx))
	})

	t.Run("category delete cascades", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		groceries := seedCategory(t, store, "Groceries")
		rent := seedCategory(t, store, "Rent")

		_, err := store.Expenses().Insert(ctx, model.NewTransaction("Shop", "", testDate(1), 100, groceries))
		require.NoError(t, err)
		_, err = store.Expenses().Insert(ctx, model.NewTransaction("March rent", "", testDate(1), 9000, rent))
		require.NoError(t, err)

		require.NoError(t, store.ExpenseCategories().DeleteByName(ctx, "Groceries"))

		remaining, err := store.Expenses().All(ctx, OrderNone)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "March rent", remaining[0].Name)
	})
}

func TestTransactionStoreTotals(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *Store) {
		t.Helper()
		cat := seedCategory(t, store, "Groceries")
		for _, e := range []struct {
			day    int
			amount int64
		}{{5, 100}, {15, 200}, {25, 400}} {
			_, err := store.Expenses().Insert(ctx,
				model.NewTransaction("Shop", "", testDate(e.day), e.amount, cat))
			require.NoError(t, err)
		}
	}

	t.Run("total amount", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		total, err := store.Expenses().TotalAmount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(700), total)
	})

	t.Run("empty table sums to zero", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()

		total, err := store.Expenses().TotalAmount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("total since is inclusive", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		total, err := store.Expenses().TotalAmountSince(ctx, testDate(15))
		require.NoError(t, err)
		assert.Equal(t, int64(600), total)
	})

	t.Run("total between includes both endpoints", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		total, err := store.Expenses().TotalAmountBetween(ctx, testDate(5), testDate(15))
		require.NoError(t, err)
		assert.Equal(t, int64(300), total)
	})

	t.Run("reversed range sums to zero", func(t *testing.T) {
		store, cleanup := createTestStore(t)
		defer cleanup()
		seed(t, store)

		total, err := store.Expenses().TotalAmountBetween(ctx, testDate(25), testDate(5))
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
