package model

// TransientID marks an entity that has not been persisted yet. Stores assign
// the real identifier on insert.
const TransientID int64 = -1

// Category groups transactions inside one space (income or expenses). The two
// spaces keep separate category tables; a category never moves between them.
type Category struct {
	Name        string
	Description string
	ID          int64
}

// NewCategory returns a transient category.
func NewCategory(name, description string) *Category {
	return &Category{ID: TransientID, Name: name, Description: description}
}

// Persisted reports whether the category has a database identity.
func (c *Category) Persisted() bool {
	return c.ID != TransientID
}

// Equal compares categories by identity. Persisted categories compare by ID,
// transient ones by name.
func (c *Category) Equal(other *Category) bool {
	if c == nil || other == nil {
		return false
	}
	if c.Persisted() && other.Persisted() {
		return c.ID == other.ID
	}
	return c.Name == other.Name
}
