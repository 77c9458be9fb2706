// Package selection provides the wraparound focus cursor used by every wheel.
package selection

// Cursor tracks which element of an ordered list has focus. Advancing past
// either end wraps around. An empty cursor ignores every movement.
type Cursor[T any] struct {
	items []T
	index int
}

// New returns a cursor focused on the first item.
func New[T any](items []T) *Cursor[T] {
	return &Cursor[T]{items: items}
}

// Len returns the number of items.
func (c *Cursor[T]) Len() int {
	return len(c.items)
}

// Index returns the focused position. It is 0 for an empty cursor.
func (c *Cursor[T]) Index() int {
	return c.index
}

// Items returns the underlying items. Callers must not modify the slice.
func (c *Cursor[T]) Items() []T {
	return c.items
}

// Focused returns the focused item, or false when the cursor is empty.
func (c *Cursor[T]) Focused() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[c.index], true
}

// Advance moves focus by dir positions, wrapping in both directions.
func (c *Cursor[T]) Advance(dir int) {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.index = ((c.index+dir)%n + n) % n
}

// SetIndex focuses position i. Out of range positions are ignored.
func (c *Cursor[T]) SetIndex(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.index = i
	return true
}

// Replace swaps the item list and resets focus to the first item.
func (c *Cursor[T]) Replace(items []T) {
	c.items = items
	c.index = 0
}

// Append adds an item to the end of the list without moving focus.
func (c *Cursor[T]) Append(item T) {
	c.items = append(c.items, item)
}
