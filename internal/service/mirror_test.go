package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorMutations(t *testing.T) {
	t.Run("add append", func(t *testing.T) {
		m := NewMirror[string]()

		m.Add("a")
		m.Add("b")
		assert.Equal(t, []string{"a", "b"}, m.Snapshot())
		assert.Equal(t, 2, m.Len())
	})

	t.Run("update patches the first match", func(t *testing.T) {
		m := NewMirror[string]()
		m.Replace([]string{"a", "b", "c"})

		m.Update(func(s string) bool { return s == "b" }, "B")
		assert.Equal(t, []string{"a", "B", "c"}, m.Snapshot())
	})

	t.Run("update without a match is a no-op", func(t *testing.T) {
		m := NewMirror[string]()
		m.Replace([]string{"a"})

		m.Update(func(s string) bool { return s == "x" }, "X")
		assert.Equal(t, []string{"a"}, m.Snapshot())
	})

	t.Run("remove drops the first match", func(t *testing.T) {
		m := NewMirror[string]()
		m.Replace([]string{"a", "b", "c"})

		m.Remove(func(s string) bool { return s == "b" })
		assert.Equal(t, []string{"a", "c"}, m.Snapshot())
	})

	t.Run("replace is wholesale", func(t *testing.T) {
		m := NewMirror[string]()
		m.Add("old")

		m.Replace([]string{"x", "y"})
		assert.Equal(t, []string{"x", "y"}, m.Snapshot())
	})

	t.Run("clear empties", func(t *testing.T) {
		m := NewMirror[string]()
		m.Replace([]string{"a", "b"})

		m.Clear()
		assert.Equal(t, 0, m.Len())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		m := NewMirror[string]()
		m.Replace([]string{"a", "b"})

		snap := m.Snapshot()
		snap[0] = "mutated"
		assert.Equal(t, []string{"a", "b"}, m.Snapshot())
	})
}

func TestMirrorProjections(t *testing.T) {
	t.Run("sorted does not reorder the contents", func(t *testing.T) {
		m := NewMirror[int]()
		m.Replace([]int{3, 1, 2})

		sorted := m.Sorted(func(a, b int) bool { return a < b })
		assert.Equal(t, []int{1, 2, 3}, sorted)
		assert.Equal(t, []int{3, 1, 2}, m.Snapshot())
	})

	t.Run("nil filter passes everything", func(t *testing.T) {
		m := NewMirror[int]()
		m.Replace([]int{1, 2, 3})

		assert.Equal(t, []int{1, 2, 3}, m.Filtered())
	})

	t.Run("filter narrows the view", func(t *testing.T) {
		m := NewMirror[int]()
		m.Replace([]int{1, 2, 3, 4})

		m.SetFilter(func(n int) bool { return n%2 == 0 })
		assert.Equal(t, []int{2, 4}, m.Filtered())
		assert.Equal(t, 4, m.Len(), "the filter never drops contents")

		m.SetFilter(nil)
		assert.Equal(t, []int{1, 2, 3, 4}, m.Filtered())
	})
}

func TestMirrorEvents(t *testing.T) {
	m := NewMirror[string]()

	var events []Event[string]
	m.Subscribe(func(e Event[string]) { events = append(events, e) })

	m.Add("a")
	m.Update(func(s string) bool { return s == "a" }, "A")
	m.Remove(func(s string) bool { return s == "A" })
	m.Replace([]string{"x"})
	m.SetFilter(func(string) bool { return true })
	m.Clear()

	require.Len(t, events, 6)
	assert.Equal(t, EventAdded, events[0].Kind)
	assert.Equal(t, "a", events[0].Item)
	assert.Equal(t, EventUpdated, events[1].Kind)
	assert.Equal(t, "A", events[1].Item)
	assert.Equal(t, EventRemoved, events[2].Kind)
	assert.Equal(t, EventReloaded, events[3].Kind)
	assert.Equal(t, EventFiltered, events[4].Kind)
	assert.Equal(t, EventReloaded, events[5].Kind)
}

func TestMirrorEventsSkipMisses(t *testing.T) {
	m := NewMirror[string]()
	m.Replace([]string{"a"})

	var count int
	m.Subscribe(func(Event[string]) { count++ })

	m.Update(func(s string) bool { return s == "x" }, "X")
	m.Remove(func(s string) bool { return s == "x" })
	assert.Zero(t, count, "a miss publishes nothing")
}
