package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apetros/billfold/internal/model"
)

// TransactionStore persists transactions in one physical table joined to its
// paired category table. Every read resolves the category in the same pass;
// categories are never lazily loaded. Two instances exist per database,
// bound to the income and expense tables.
type TransactionStore struct {
	db       *sql.DB
	table    TransactionTable
	category CategoryTable
	mu       sync.Mutex
}

var _ RecordStore[model.Transaction] = (*TransactionStore)(nil)

// NewTransactionStore binds a transaction store to its table pair.
func NewTransactionStore(db *sql.DB, table TransactionTable, category CategoryTable) *TransactionStore {
	return &TransactionStore{db: db, table: table, category: category}
}

// joinedSelect builds the SELECT ... INNER JOIN prefix shared by all reads.
func (s *TransactionStore) joinedSelect() string {
	t, c := s.table, s.category
	return fmt.Sprintf(
		"SELECT %[1]s.%[2]s, %[1]s.%[3]s, %[1]s.%[4]s, %[1]s.%[5]s, %[1]s.%[6]s, "+
			"%[8]s.%[9]s, %[8]s.%[10]s, %[8]s.%[11]s "+
			"FROM %[1]s INNER JOIN %[8]s ON %[1]s.%[7]s = %[8]s.%[9]s",
		t.Table, t.IDColumn, t.NameColumn, t.DescriptionColumn, t.DateColumn, t.AmountColumn,
		t.CategoryColumn,
		c.Table, c.IDColumn, c.NameColumn, c.DescriptionColumn)
}

func (s *TransactionStore) dateColumn() string {
	return s.table.Table + "." + s.table.DateColumn
}

// All returns every transaction, optionally ordered by date.
func (s *TransactionStore) All(ctx context.Context, order Order) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := s.joinedSelect() + orderClause(order, s.dateColumn())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryTransactions(ctx, query)
}

// Latest returns the most recent n transactions, newest first.
func (s *TransactionStore) Latest(ctx context.Context, n int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s ORDER BY %s DESC LIMIT %d", s.joinedSelect(), s.dateColumn(), n)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryTransactions(ctx, query)
}

// LatestSince returns all transactions dated on or after since, newest first.
func (s *TransactionStore) LatestSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s WHERE %s >= ? ORDER BY %s DESC",
		s.joinedSelect(), s.dateColumn(), s.dateColumn())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryTransactions(ctx, query, since.Format(model.DateLayout))
}

// LatestAll returns every transaction, newest first.
func (s *TransactionStore) LatestAll(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s ORDER BY %s DESC", s.joinedSelect(), s.dateColumn())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryTransactions(ctx, query)
}

// Get returns the transaction with the given id, or ErrNotFound.
func (s *TransactionStore) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s WHERE %s.%s = ?", s.joinedSelect(), s.table.Table, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get transaction: %v", ErrQueryFailed, err)
	}
	return &txn, nil
}

// Count returns the number of transactions, or -1 on storage failure.
func (s *TransactionStore) Count(ctx context.Context) int {
	if ctx == nil {
		return -1
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table.Table)

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return -1
	}
	return count
}

// CountByName returns the number of transactions matching name under the
// given criterion, or -1 on storage failure.
func (s *TransactionStore) CountByName(ctx context.Context, name string, match Match) int {
	if ctx == nil {
		return -1
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", s.table.Table, s.table.NameColumn)
	if match == MatchLike {
		query += " LIKE ?"
		name = likePattern(name)
	} else {
		query += " = ?"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		return -1
	}
	return count
}

// Exists reports whether a transaction with the given id is stored.
func (s *TransactionStore) Exists(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", s.table.Table, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: count transactions query failed: %v", ErrQueryFailed, err)
	}
	return count > 0, nil
}

// Insert stores a new transaction and returns its generated id. The date is
// stored as a date-only value and the category as its foreign-key id.
func (s *TransactionStore) Insert(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if txn == nil {
		return 0, fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)",
		s.table.Table, s.table.NameColumn, s.table.DescriptionColumn,
		s.table.DateColumn, s.table.AmountColumn, s.table.CategoryColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, query,
		txn.Name, txn.Description, txn.Date.Format(model.DateLayout), txn.Amount, txn.Category.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: insert transaction query failed: %v", ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoGeneratedID, err)
	}

	slog.Info("inserted transaction", "table", s.table.Table, "name", txn.Name, "id", id)
	return id, nil
}

// Update replaces all fields of the row matching the current transaction's
// id. Unlike categories, the row is matched by id: transaction names are not
// unique. The statement runs in an explicit transaction rolled back unless
// exactly one row is affected.
func (s *TransactionStore) Update(ctx context.Context, current, updated *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if current == nil || updated == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		s.table.Table, s.table.NameColumn, s.table.DescriptionColumn,
		s.table.DateColumn, s.table.AmountColumn, s.table.CategoryColumn, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	return execExpectOne(ctx, s.db, query,
		updated.Name, updated.Description, updated.Date.Format(model.DateLayout),
		updated.Amount, updated.Category.ID, current.ID)
}

// Delete removes the transaction by id.
func (s *TransactionStore) Delete(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table.Table, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, query, txn.ID); err != nil {
		return fmt.Errorf("%w: delete transaction query failed: %v", ErrQueryFailed, err)
	}

	slog.Info("deleted transaction", "table", s.table.Table, "id", txn.ID)
	return nil
}

// DeleteAll removes every transaction in this space.
func (s *TransactionStore) DeleteAll(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s", s.table.Table)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: delete all transactions query failed: %v", ErrQueryFailed, err)
	}
	return nil
}

// TotalAmount returns the sum of all amounts in minor units. An empty table
// sums to 0, not an error.
func (s *TransactionStore) TotalAmount(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s", s.table.AmountColumn, s.table.Table)

	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: amount summary query failed: %v", ErrQueryFailed, err)
	}
	return total, nil
}

// TotalAmountSince returns the sum of amounts dated on or after since.
func (s *TransactionStore) TotalAmountSince(ctx context.Context, since time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s >= ?",
		s.table.AmountColumn, s.table.Table, s.table.DateColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	if err := s.db.QueryRowContext(ctx, query, since.Format(model.DateLayout)).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: amount summary query failed: %v", ErrQueryFailed, err)
	}
	return total, nil
}

// TotalAmountBetween returns the sum of amounts dated within [start, end],
// inclusive of both endpoints.
func (s *TransactionStore) TotalAmountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s BETWEEN ? AND ?",
		s.table.AmountColumn, s.table.Table, s.table.DateColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	err := s.db.QueryRowContext(ctx, query,
		start.Format(model.DateLayout), end.Format(model.DateLayout)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: amount summary query failed: %v", ErrQueryFailed, err)
	}
	return total, nil
}

func (s *TransactionStore) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load transactions: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: could not scan transaction: %v", ErrQueryFailed, scanErr)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating transactions: %v", ErrQueryFailed, err)
	}

	slog.Debug("retrieved transactions", "table", s.table.Table, "count", len(transactions))
	return transactions, nil
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var txn model.Transaction
	var description, categoryDescription sql.NullString
	var date string

	err := row.Scan(&txn.ID, &txn.Name, &description, &date, &txn.Amount,
		&txn.Category.ID, &txn.Category.Name, &categoryDescription)
	if err != nil {
		return model.Transaction{}, err
	}

	txn.Description = description.String
	txn.Category.Description = categoryDescription.String

	txn.Date, err = time.Parse(model.DateLayout, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	return txn, nil
}
