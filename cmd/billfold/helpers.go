package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/apetros/billfold/internal/common"
	"github.com/apetros/billfold/internal/config"
	"github.com/apetros/billfold/internal/model"
	"github.com/apetros/billfold/internal/service"
	"github.com/apetros/billfold/internal/storage"
)

// ledger bundles the open store with the four services a command works
// against.
type ledger struct {
	store             *storage.Store
	incomeCategories  *service.CategoryService
	expenseCategories *service.CategoryService
	income            *service.TransactionService
	expenses          *service.TransactionService
}

// openLedger opens the configured database and ensures the schema exists.
// Schema creation is best-effort by design: a failure is logged and any
// missing table surfaces through the first query against it.
func openLedger(ctx context.Context) (*ledger, error) {
	dbPath := config.DatabasePath()

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open the ledger database", err)
	}

	if !store.CreateSchema(ctx) {
		slog.Warn("schema creation failed, continuing", "path", dbPath)
	}

	return &ledger{
		store:             store,
		incomeCategories:  service.NewCategoryService(store.IncomeCategories()),
		expenseCategories: service.NewCategoryService(store.ExpenseCategories()),
		income:            service.NewTransactionService(store.Income()),
		expenses:          service.NewTransactionService(store.Expenses()),
	}, nil
}

// close releases the database connection.
func (l *ledger) close() {
	if err := l.store.Close(); err != nil {
		common.LogError(err, "failed to close database", nil)
	}
}

// categories returns the category service for the selected space.
func (l *ledger) categories(income bool) *service.CategoryService {
	if income {
		return l.incomeCategories
	}
	return l.expenseCategories
}

// transactions returns the transaction service for the selected space.
func (l *ledger) transactions(income bool) *service.TransactionService {
	if income {
		return l.income
	}
	return l.expenses
}

func spaceName(income bool) string {
	if income {
		return "income"
	}
	return "expense"
}

// parseDate parses a date-only argument.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

// parseAmount converts a decimal major-unit argument into minor units.
// Conversion to cents happens here, at the presentation edge.
func parseAmount(s string) (int64, error) {
	major, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if major < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return model.MajorToMinor(major), nil
}

// formatAmount renders minor units as a decimal major-unit string.
func formatAmount(minor int64) string {
	return fmt.Sprintf("%.2f", model.MinorToMajor(minor))
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
