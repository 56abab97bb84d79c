package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/apetros/billfold/internal/model"
	"github.com/apetros/billfold/internal/storage"
)

// TransactionService validates and orchestrates transaction mutations for
// one transaction space. Transaction names are not unique, so no duplicate
// pre-flight exists; instead update and remove re-check existence by id
// against storage immediately before writing.
//
// Two summation paths exist on purpose. The ListTotal family and
// CalculateTotal sum over the in-memory mirror: fast, and reflecting
// whatever is currently loaded. The TotalAmount family passes through to
// storage and always reflects persisted truth. Callers pick the path
// matching their consistency need.
type TransactionService struct {
	store  *storage.TransactionStore
	mirror *Mirror[model.Transaction]
}

// NewTransactionService wraps a transaction store.
func NewTransactionService(store *storage.TransactionStore) *TransactionService {
	return &TransactionService{
		store:  store,
		mirror: NewMirror[model.Transaction](),
	}
}

// Mirror exposes the observable in-memory mirror consumed by the
// presentation layer. Its filter predicate is owned by the ListTotal family.
func (s *TransactionService) Mirror() *Mirror[model.Transaction] {
	return s.mirror
}

// SortedByDate returns the mirror's filtered view ordered newest first.
func (s *TransactionService) SortedByDate() []model.Transaction {
	out := s.mirror.Filtered()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// All loads every transaction in storage order and replaces the mirror
// wholesale.
func (s *TransactionService) All(ctx context.Context) ([]model.Transaction, error) {
	return s.load(ctx, storage.OrderNone)
}

// AllAscOrder loads every transaction ordered by date ascending and replaces
// the mirror wholesale.
func (s *TransactionService) AllAscOrder(ctx context.Context) ([]model.Transaction, error) {
	return s.load(ctx, storage.OrderAsc)
}

// AllDescOrder loads every transaction ordered by date descending and
// replaces the mirror wholesale.
func (s *TransactionService) AllDescOrder(ctx context.Context) ([]model.Transaction, error) {
	return s.load(ctx, storage.OrderDesc)
}

func (s *TransactionService) load(ctx context.Context, order storage.Order) ([]model.Transaction, error) {
	transactions, err := s.store.All(ctx, order)
	if err != nil {
		return nil, requestFailed("get transactions", err)
	}
	s.mirror.Replace(transactions)
	return transactions, nil
}

// Get returns the transaction with the given id.
func (s *TransactionService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	if id < 0 {
		return nil, ErrInvalidID
	}

	txn, err := s.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, requestFailed("get transaction", err)
	}
	return txn, nil
}

// Exists reports whether a transaction with the given id is stored.
func (s *TransactionService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, requestFailed("check transaction exists", err)
	}
	return ok, nil
}

// Add validates and inserts a new transaction, assigns its generated id and
// appends it to the mirror. Names need not be unique.
func (s *TransactionService) Add(ctx context.Context, txn *model.Transaction) (int64, error) {
	if txn == nil {
		return 0, ErrNilInput
	}
	if txn.Name == "" {
		return 0, ErrEmptyName
	}
	if txn.Date.IsZero() {
		return 0, ErrEmptyDate
	}

	id, err := s.store.Insert(ctx, txn)
	if err != nil {
		return 0, requestFailed("add transaction", err)
	}

	txn.ID = id
	s.mirror.Add(*txn)
	return id, nil
}

// Update re-checks that current still exists by id, persists updated over
// it, then patches current and the mirror in place. All fields are
// replaceable except the id.
func (s *TransactionService) Update(ctx context.Context, current, updated *model.Transaction) error {
	if current == nil || updated == nil {
		return ErrNilInput
	}
	if updated.Name == "" {
		return ErrEmptyName
	}
	if updated.Date.IsZero() {
		return ErrEmptyDate
	}

	exists, err := s.store.Exists(ctx, current.ID)
	if err != nil {
		return requestFailed("update transaction", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.store.Update(ctx, current, updated); err != nil {
		return requestFailed("update transaction", err)
	}

	id := current.ID
	current.Name = updated.Name
	current.Description = updated.Description
	current.Date = updated.Date
	current.Amount = updated.Amount
	current.Category = updated.Category
	s.mirror.Update(func(t model.Transaction) bool { return t.ID == id }, *current)
	return nil
}

// Remove re-checks existence by id, deletes the transaction and drops it
// from the mirror.
func (s *TransactionService) Remove(ctx context.Context, txn *model.Transaction) error {
	if txn == nil {
		return ErrNilInput
	}

	exists, err := s.store.Exists(ctx, txn.ID)
	if err != nil {
		return requestFailed("remove transaction", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, txn); err != nil {
		return requestFailed("remove transaction", err)
	}

	s.mirror.Remove(func(t model.Transaction) bool { return t.ID == txn.ID })
	return nil
}

// RemoveAll deletes every transaction in this space and clears the mirror.
func (s *TransactionService) RemoveAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return requestFailed("remove all transactions", err)
	}
	s.mirror.Clear()
	return nil
}

// Count passes through to the store, including its -1 failure sentinel.
func (s *TransactionService) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// CountEqual counts transactions whose name matches exactly. Returns the
// store's -1 sentinel untranslated on failure.
func (s *TransactionService) CountEqual(ctx context.Context, name string) int {
	return s.store.CountByName(ctx, name, storage.MatchExact)
}

// CountLike counts transactions whose name contains the given substring.
// Returns the store's -1 sentinel untranslated on failure.
func (s *TransactionService) CountLike(ctx context.Context, name string) int {
	return s.store.CountByName(ctx, name, storage.MatchLike)
}

// Latest returns the n most recent transactions from storage, newest first.
// The mirror is not touched.
func (s *TransactionService) Latest(ctx context.Context, n int) ([]model.Transaction, error) {
	transactions, err := s.store.Latest(ctx, n)
	if err != nil {
		return nil, requestFailed("get latest transactions", err)
	}
	return transactions, nil
}

// LatestSince returns all transactions dated on or after since, newest
// first, from storage. The mirror is not touched.
func (s *TransactionService) LatestSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	transactions, err := s.store.LatestSince(ctx, since)
	if err != nil {
		return nil, requestFailed("get latest transactions", err)
	}
	return transactions, nil
}

// TotalAmount returns the persisted all-time total in minor units.
func (s *TransactionService) TotalAmount(ctx context.Context) (int64, error) {
	total, err := s.store.TotalAmount(ctx)
	if err != nil {
		return 0, requestFailed("total amount", err)
	}
	return total, nil
}

// TotalAmountSince returns the persisted total since a date in minor units.
func (s *TransactionService) TotalAmountSince(ctx context.Context, since time.Time) (int64, error) {
	total, err := s.store.TotalAmountSince(ctx, since)
	if err != nil {
		return 0, requestFailed("total amount", err)
	}
	return total, nil
}

// TotalAmountBetween returns the persisted total over an inclusive date
// range in minor units.
func (s *TransactionService) TotalAmountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	total, err := s.store.TotalAmountBetween(ctx, start, end)
	if err != nil {
		return 0, requestFailed("total amount", err)
	}
	return total, nil
}

// ListTotal filters the mirror's view to everything and returns the sum in
// major units. This and the other ListTotal variants are the single place
// inside the core where minor units convert to a display-ready decimal.
func (s *TransactionService) ListTotal() float64 {
	s.mirror.SetFilter(nil)
	return sumMajor(s.mirror.Filtered())
}

// ListTotalByCategory filters the mirror's view to one category and returns
// the sum in major units.
func (s *TransactionService) ListTotalByCategory(category *model.Category) float64 {
	s.mirror.SetFilter(func(t model.Transaction) bool {
		return t.Category.Equal(category)
	})
	return sumMajor(s.mirror.Filtered())
}

// ListTotalBetween filters the mirror's view to an inclusive date range and
// returns the sum in major units. A reversed range sums an empty set; it is
// never swapped here.
func (s *TransactionService) ListTotalBetween(start, end time.Time) (float64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrEmptyDate
	}
	s.mirror.SetFilter(func(t model.Transaction) bool {
		return withinRange(t.Date, start, end)
	})
	return sumMajor(s.mirror.Filtered()), nil
}

// ListTotalByCategoryBetween filters the mirror's view to one category
// within an inclusive date range and returns the sum in major units.
func (s *TransactionService) ListTotalByCategoryBetween(category *model.Category, start, end time.Time) (float64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrEmptyDate
	}
	s.mirror.SetFilter(func(t model.Transaction) bool {
		return t.Category.Equal(category) && withinRange(t.Date, start, end)
	})
	return sumMajor(s.mirror.Filtered()), nil
}

// CalculateTotal sums the whole mirror in major units without changing the
// filtered view.
func (s *TransactionService) CalculateTotal() float64 {
	return sumMajor(s.mirror.Snapshot())
}

// CalculateTotalBetween sums the mirror over an inclusive date range in
// major units without changing the filtered view.
func (s *TransactionService) CalculateTotalBetween(since, until time.Time) (float64, error) {
	if since.IsZero() || until.IsZero() {
		return 0, ErrEmptyDate
	}

	var total int64
	for _, t := range s.mirror.Snapshot() {
		if withinRange(t.Date, since, until) {
			total += t.Amount
		}
	}
	return model.MinorToMajor(total), nil
}

// withinRange reports whether d falls inside [start, end], both endpoints
// inclusive.
func withinRange(d, start, end time.Time) bool {
	return d.After(start.AddDate(0, 0, -1)) && d.Before(end.AddDate(0, 0, 1))
}

func sumMajor(transactions []model.Transaction) float64 {
	var total int64
	for _, t := range transactions {
		total += t.Amount
	}
	return model.MinorToMajor(total)
}
