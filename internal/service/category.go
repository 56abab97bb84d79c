package service

import (
	"context"
	"errors"
	"strings"

	"github.com/apetros/billfold/internal/model"
	"github.com/apetros/billfold/internal/storage"
)

// CategoryService validates and orchestrates category mutations for one
// category space. Uniqueness of names is enforced here by a pre-flight count
// query, not by catching the storage-level unique constraint: the single
// GUI-thread writer model makes the race between check and insert a
// non-concern.
type CategoryService struct {
	store  *storage.CategoryStore
	mirror *Mirror[model.Category]
}

// NewCategoryService wraps a category store.
func NewCategoryService(store *storage.CategoryStore) *CategoryService {
	return &CategoryService{
		store:  store,
		mirror: NewMirror[model.Category](),
	}
}

// Mirror exposes the observable in-memory mirror consumed by the
// presentation layer.
func (s *CategoryService) Mirror() *Mirror[model.Category] {
	return s.mirror
}

// SortedByName returns the mirror contents ordered by name,
// case-insensitively.
func (s *CategoryService) SortedByName() []model.Category {
	return s.mirror.Sorted(func(a, b model.Category) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// All loads every category in storage order and replaces the mirror
// wholesale.
func (s *CategoryService) All(ctx context.Context) ([]model.Category, error) {
	return s.load(ctx, storage.OrderNone)
}

// AllAscOrder loads every category ordered by name ascending and replaces
// the mirror wholesale.
func (s *CategoryService) AllAscOrder(ctx context.Context) ([]model.Category, error) {
	return s.load(ctx, storage.OrderAsc)
}

// AllDescOrder loads every category ordered by name descending and replaces
// the mirror wholesale.
func (s *CategoryService) AllDescOrder(ctx context.Context) ([]model.Category, error) {
	return s.load(ctx, storage.OrderDesc)
}

func (s *CategoryService) load(ctx context.Context, order storage.Order) ([]model.Category, error) {
	categories, err := s.store.All(ctx, order)
	if err != nil {
		return nil, requestFailed("get categories", err)
	}
	s.mirror.Replace(categories)
	return categories, nil
}

// Get returns the category with the given name.
func (s *CategoryService) Get(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	category, err := s.store.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, requestFailed("get category", err)
	}
	return category, nil
}

// Add validates and inserts a new category, assigns its generated id and
// appends it to the mirror.
func (s *CategoryService) Add(ctx context.Context, category *model.Category) (int64, error) {
	if category == nil {
		return 0, ErrNilInput
	}
	if category.Name == "" {
		return 0, ErrEmptyName
	}
	if s.store.CountByName(ctx, category.Name, storage.MatchExact) > 0 {
		return 0, ErrDuplicateEntry
	}

	id, err := s.store.Insert(ctx, category)
	if err != nil {
		return 0, requestFailed("add category", err)
	}

	category.ID = id
	s.mirror.Add(*category)
	return id, nil
}

// Update persists updated over the row currently named current.Name, then
// patches current and the mirror in place. The identity id never changes.
func (s *CategoryService) Update(ctx context.Context, current, updated *model.Category) error {
	if current == nil || updated == nil {
		return ErrNilInput
	}
	if s.store.CountByName(ctx, current.Name, storage.MatchExact) == 0 {
		return ErrNotFound
	}
	if updated.Name == "" {
		return ErrEmptyName
	}
	if current.Name != updated.Name &&
		s.store.CountByName(ctx, updated.Name, storage.MatchExact) > 0 {
		return ErrDuplicateEntry
	}

	if err := s.store.Update(ctx, current, updated); err != nil {
		return requestFailed("update category", err)
	}

	oldName := current.Name
	current.Name = updated.Name
	current.Description = updated.Description
	s.mirror.Update(func(c model.Category) bool { return c.Name == oldName }, *current)
	return nil
}

// Remove deletes the category and drops it from the mirror.
func (s *CategoryService) Remove(ctx context.Context, category *model.Category) error {
	if category == nil {
		return ErrNilInput
	}
	return s.RemoveByName(ctx, category.Name)
}

// RemoveByName deletes the category with the given name and drops it from
// the mirror.
func (s *CategoryService) RemoveByName(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if s.store.CountByName(ctx, name, storage.MatchExact) == 0 {
		return ErrNotFound
	}

	if err := s.store.DeleteByName(ctx, name); err != nil {
		return requestFailed("remove category", err)
	}

	s.mirror.Remove(func(c model.Category) bool { return c.Name == name })
	return nil
}

// RemoveAll deletes every category in this space and clears the mirror.
func (s *CategoryService) RemoveAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return requestFailed("remove all categories", err)
	}
	s.mirror.Clear()
	return nil
}

// Count passes through to the store, including its -1 failure sentinel.
func (s *CategoryService) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// CountEqual counts categories whose name matches exactly. Returns the
// store's -1 sentinel untranslated on failure.
func (s *CategoryService) CountEqual(ctx context.Context, name string) int {
	return s.store.CountByName(ctx, name, storage.MatchExact)
}

// CountLike counts categories whose name contains the given substring.
// Returns the store's -1 sentinel untranslated on failure.
func (s *CategoryService) CountLike(ctx context.Context, name string) int {
	return s.store.CountByName(ctx, name, storage.MatchLike)
}
