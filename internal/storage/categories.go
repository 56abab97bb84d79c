package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/apetros/billfold/internal/model"
)

// CategoryStore persists categories in one physical table. Two instances
// exist per database, bound to the income and expense category tables.
type CategoryStore struct {
	db    *sql.DB
	table CategoryTable
	mu    sync.Mutex
}

var _ RecordStore[model.Category] = (*CategoryStore)(nil)

// NewCategoryStore binds a category store to a table.
func NewCategoryStore(db *sql.DB, table CategoryTable) *CategoryStore {
	return &CategoryStore{db: db, table: table}
}

// All returns every category, optionally ordered by name.
func (s *CategoryStore) All(ctx context.Context, order Order) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		s.table.IDColumn, s.table.NameColumn, s.table.DescriptionColumn, s.table.Table)
	query += orderClause(order, s.table.NameColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load categories: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: could not scan category: %v", ErrQueryFailed, scanErr)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating categories: %v", ErrQueryFailed, err)
	}

	slog.Debug("retrieved categories", "table", s.table.Table, "count", len(categories))
	return categories, nil
}

// Count returns the number of categories, or -1 on storage failure.
func (s *CategoryStore) Count(ctx context.Context) int {
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

// CountByName returns the number of categories matching name under the given
// criterion, or -1 on storage failure.
func (s *CategoryStore) CountByName(ctx context.Context, name string, match Match) int {
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

// Exists reports whether a category with the given id is stored.
func (s *CategoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", s.table.Table, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: count categories query failed: %v", ErrQueryFailed, err)
	}
	return count > 0, nil
}

// GetByName returns the category with the given name, or ErrNotFound.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = ?",
		s.table.IDColumn, s.table.NameColumn, s.table.DescriptionColumn,
		s.table.Table, s.table.NameColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get category: %v", ErrQueryFailed, err)
	}
	return &cat, nil
}

// Insert stores a new category and returns its generated id.
func (s *CategoryStore) Insert(ctx context.Context, category *model.Category) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if category == nil {
		return 0, fmt.Errorf("%w: category", ErrNilParameter)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)",
		s.table.Table, s.table.NameColumn, s.table.DescriptionColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, query, category.Name, category.Description)
	if err != nil {
		return 0, fmt.Errorf("%w: insert category query failed: %v", ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoGeneratedID, err)
	}

	slog.Info("inserted category", "table", s.table.Table, "name", category.Name, "id", id)
	return id, nil
}

// Update replaces name and description of the row matching the current
// category's name. The statement runs in an explicit transaction that is
// rolled back unless it affects exactly one row.
func (s *CategoryStore) Update(ctx context.Context, current, updated *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if current == nil || updated == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		s.table.Table, s.table.NameColumn, s.table.DescriptionColumn, s.table.NameColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	return execExpectOne(ctx, s.db, query, updated.Name, updated.Description, current.Name)
}

// Delete removes the category by id.
func (s *CategoryStore) Delete(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table.Table, s.table.IDColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, query, category.ID); err != nil {
		return fmt.Errorf("%w: delete category query failed: %v", ErrQueryFailed, err)
	}

	slog.Info("deleted category", "table", s.table.Table, "id", category.ID)
	return nil
}

// DeleteByName removes the category with the given name.
func (s *CategoryStore) DeleteByName(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table.Table, s.table.NameColumn)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("%w: delete category query failed: %v", ErrQueryFailed, err)
	}

	slog.Info("deleted category", "table", s.table.Table, "name", name)
	return nil
}

// DeleteAll removes every category in this space.
func (s *CategoryStore) DeleteAll(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s", s.table.Table)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: delete all categories query failed: %v", ErrQueryFailed, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.Category, error) {
	var cat model.Category
	var description sql.NullString
	if err := row.Scan(&cat.ID, &cat.Name, &description); err != nil {
		return model.Category{}, err
	}
	cat.Description = description.String
	return cat, nil
}

// execExpectOne runs a single mutating statement inside an explicit
// transaction and commits only if exactly one row was affected.
func execExpectOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrQueryFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: update query failed: %v", ErrQueryFailed, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: could not read affected rows: %v", ErrQueryFailed, err)
	}
	if affected != 1 {
		return fmt.Errorf("%w: update affected %d rows, want 1", ErrQueryFailed, affected)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit update: %v", ErrQueryFailed, err)
	}
	return nil
}
