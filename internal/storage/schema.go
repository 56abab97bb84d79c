package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// CategoryTable describes the physical layout of one category table. Table
// and column names are configuration data so that a single store
// implementation serves both category spaces.
type CategoryTable struct {
	Table             string
	IDColumn          string
	NameColumn        string
	DescriptionColumn string
}

// TransactionTable describes the physical layout of one transaction table.
type TransactionTable struct {
	Table             string
	IDColumn          string
	NameColumn        string
	DescriptionColumn string
	DateColumn        string
	AmountColumn      string
	CategoryColumn    string
}

// The four canonical table bindings.
var (
	IncomeCategoryTable = CategoryTable{
		Table:             "income_categories",
		IDColumn:          "id",
		NameColumn:        "name",
		DescriptionColumn: "description",
	}

	ExpenseCategoryTable = CategoryTable{
		Table:             "expense_categories",
		IDColumn:          "id",
		NameColumn:        "name",
		DescriptionColumn: "description",
	}

	IncomeTable = TransactionTable{
		Table:             "income",
		IDColumn:          "id",
		NameColumn:        "name",
		DescriptionColumn: "description",
		DateColumn:        "date",
		AmountColumn:      "amount",
		CategoryColumn:    "category_id",
	}

	ExpenseTable = TransactionTable{
		Table:             "expenses",
		IDColumn:          "id",
		NameColumn:        "name",
		DescriptionColumn: "description",
		DateColumn:        "date",
		AmountColumn:      "amount",
		CategoryColumn:    "category_id",
	}
)

func (t CategoryTable) createDDL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s INTEGER PRIMARY KEY AUTOINCREMENT,
		%s TEXT NOT NULL UNIQUE,
		%s TEXT)`,
		t.Table, t.IDColumn, t.NameColumn, t.DescriptionColumn)
}

func (t TransactionTable) createDDL(category CategoryTable) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s INTEGER PRIMARY KEY AUTOINCREMENT,
		%s TEXT NOT NULL,
		%s TEXT,
		%s TEXT NOT NULL,
		%s INTEGER NOT NULL,
		%s INTEGER NOT NULL,
		FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE CASCADE)`,
		t.Table, t.IDColumn, t.NameColumn, t.DescriptionColumn,
		t.DateColumn, t.AmountColumn, t.CategoryColumn,
		t.CategoryColumn, category.Table, category.IDColumn)
}

// CreateSchema creates the four tables as one committed unit and reports
// success. Failures are logged and reported as false rather than raised:
// callers treat missing tables as a startup-fatal condition surfaced by the
// first query against them. Safe to call on every startup.
func (s *Store) CreateSchema(ctx context.Context) bool {
	ddl := []string{
		IncomeCategoryTable.createDDL(),
		ExpenseCategoryTable.createDDL(),
		IncomeTable.createDDL(IncomeCategoryTable),
		ExpenseTable.createDDL(ExpenseCategoryTable),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("schema creation failed to begin transaction", "error", err)
		return false
	}

	for _, stmt := range ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			slog.Error("table creation failed, rolling back", "error", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("schema rollback failed", "error", rbErr)
			}
			return false
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("schema creation failed to commit", "error", err)
		return false
	}

	slog.Debug("schema ready", "path", s.dbPath)
	return true
}
