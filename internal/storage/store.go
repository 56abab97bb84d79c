package storage

import (
	"context"
	"errors"
	"fmt"
)

// Storage errors. Driver errors never escape this package raw; they are
// wrapped into ErrQueryFailed (or ErrNotFound for missing single rows) so
// callers can branch with errors.Is.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrQueryFailed   = errors.New("storage query failed")
	ErrNoGeneratedID = errors.New("no generated id returned")
)

// Order directs how All sorts its result set. Ascending and descending use
// case-insensitive collation.
type Order int

// Ordering directives for All.
const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

// Match selects the comparison used by CountByName.
type Match int

// Name matching criteria. MatchLike wraps the name in wildcard markers.
const (
	MatchExact Match = iota
	MatchLike
)

// RecordStore is the operation set every entity store supports. One
// implementation serves both spaces of an entity (income and expenses) by
// table binding, not by separate code.
//
// Count and CountByName return -1 on storage failure instead of an error;
// callers treat counting as advisory and must read -1 as "unknown".
type RecordStore[T any] interface {
	All(ctx context.Context, order Order) ([]T, error)
	Count(ctx context.Context) int
	CountByName(ctx context.Context, name string, match Match) int
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, item *T) (int64, error)
	Update(ctx context.Context, current, updated *T) error
	Delete(ctx context.Context, item *T) error
	DeleteAll(ctx context.Context) error
}

// orderClause renders the ORDER BY suffix for the given column, or an empty
// string for OrderNone.
func orderClause(order Order, column string) string {
	switch order {
	case OrderAsc:
		return fmt.Sprintf(" ORDER BY %s COLLATE NOCASE ASC", column)
	case OrderDesc:
		return fmt.Sprintf(" ORDER BY %s COLLATE NOCASE DESC", column)
	default:
		return ""
	}
}

// likePattern wraps a name in wildcard markers for substring matching.
func likePattern(name string) string {
	return "%" + name + "%"
}
