// Package storage provides the SQLite persistence layer for billfold.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store owns the database connection and the four entity stores bound to it:
// income categories, expense categories, income transactions and expense
// transactions. Each entity store serializes its own storage interactions;
// the model assumes a single logical writer beyond that.
type Store struct {
	db                *sql.DB
	incomeCategories  *CategoryStore
	expenseCategories *CategoryStore
	income            *TransactionStore
	expenses          *TransactionStore
	dbPath            string
}

// Open opens (creating if necessary) the database file at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys must be on for category deletes to cascade.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:                db,
		dbPath:            dbPath,
		incomeCategories:  NewCategoryStore(db, IncomeCategoryTable),
		expenseCategories: NewCategoryStore(db, ExpenseCategoryTable),
		income:            NewTransactionStore(db, IncomeTable, IncomeCategoryTable),
		expenses:          NewTransactionStore(db, ExpenseTable, ExpenseCategoryTable),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// IncomeCategories returns the store for the income category space.
func (s *Store) IncomeCategories() *CategoryStore {
	return s.incomeCategories
}

// ExpenseCategories returns the store for the expense category space.
func (s *Store) ExpenseCategories() *CategoryStore {
	return s.expenseCategories
}

// Income returns the store for income transactions.
func (s *Store) Income() *TransactionStore {
	return s.income
}

// Expenses returns the store for expense transactions.
func (s *Store) Expenses() *TransactionStore {
	return s.expenses
}
