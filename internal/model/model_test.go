package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAmountConversion(t *testing.T) {
	t.Run("minor to major", func(t *testing.T) {
		assert.InDelta(t, 12.34, MinorToMajor(1234), 0.0001)
		assert.InDelta(t, 0.01, MinorToMajor(1), 0.0001)
		assert.Zero(t, MinorToMajor(0))
	})

	t.Run("major to minor rounds half up", func(t *testing.T) {
		assert.Equal(t, int64(1234), MajorToMinor(12.34))
		assert.Equal(t, int64(1235), MajorToMinor(12.345))
		assert.Equal(t, int64(1235), MajorToMinor(12.346))
		assert.Equal(t, int64(0), MajorToMinor(0))
	})

	t.Run("round trip at cent precision", func(t *testing.T) {
		for _, major := range []float64{0.01, 1.10, 2.30, 99.99, 1234.56} {
			assert.InDelta(t, major, MinorToMajor(MajorToMinor(major)), 0.0001)
		}
	})
}

func TestCategoryIdentity(t *testing.T) {
	t.Run("transient until inserted", func(t *testing.T) {
		cat := NewCategory("Groceries", "")
		assert.False(t, cat.Persisted())
		assert.Equal(t, TransientID, cat.ID)

		cat.ID = 7
		assert.True(t, cat.Persisted())
	})

	t.Run("persisted categories compare by id", func(t *testing.T) {
		a := &Category{ID: 1, Name: "Groceries"}
		b := &Category{ID: 1, Name: "Renamed"}
		c := &Category{ID: 2, Name: "Groceries"}

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})

	t.Run("transient categories compare by name", func(t *testing.T) {
		a := NewCategory("Groceries", "")
		b := NewCategory("Groceries", "different description")
		c := NewCategory("Rent", "")

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})

	t.Run("nil never equals", func(t *testing.T) {
		cat := NewCategory("Groceries", "")
		assert.False(t, cat.Equal(nil))
	})
}

func TestTransaction(t *testing.T) {
	t.Run("transient until inserted", func(t *testing.T) {
		txn := NewTransaction("Shop", "", time.Now(), 100, Category{ID: 1, Name: "Groceries"})
		assert.False(t, txn.Persisted())

		txn.ID = 3
		assert.True(t, txn.Persisted())
	})

	t.Run("major reads as decimal", func(t *testing.T) {
		txn := NewTransaction("Shop", "", time.Now(), 230, Category{ID: 1})
		assert.InDelta(t, 2.30, txn.Major(), 0.0001)
	})
}
