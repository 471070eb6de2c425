// Package symbols provides generic management of named symbols that are
// placed in ROM banks, like registered resources.
package symbols

import (
	"github.com/retroenv/retrogolib/set"
)

// Manager provides generic symbol tracking with bank support.
// Symbols and banks keep the order of their first registration.
// T is the type of symbol being managed (e.g., resource.Data).
type Manager[T any] struct {
	banks     []*Bank[T]
	bankIndex map[uint8]*Bank[T]

	names []string
	items map[string]T
	used  set.Set[string]
}

// Bank represents a memory bank containing symbols.
type Bank[T any] struct {
	number uint8
	names  []string
	items  map[string]T
}

// Number returns the bank number.
func (b *Bank[T]) Number() uint8 {
	return b.number
}

// Items returns the items of this bank in registration order.
func (b *Bank[T]) Items() []T {
	items := make([]T, 0, len(b.names))
	for _, name := range b.names {
		items = append(items, b.items[name])
	}
	return items
}

// New creates a new symbol manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{
		bankIndex: make(map[uint8]*Bank[T]),
		items:     make(map[string]T),
		used:      set.New[string](),
	}
}

// Add adds the item to the given bank, creating the bank on first use.
// It returns false without modifying the manager if the name already exists.
func (m *Manager[T]) Add(bank uint8, name string, item T) bool {
	if _, ok := m.items[name]; ok {
		return false
	}

	b, ok := m.bankIndex[bank]
	if !ok {
		b = &Bank[T]{
			number: bank,
			items:  make(map[string]T),
		}
		m.bankIndex[bank] = b
		m.banks = append(m.banks, b)
	}

	b.names = append(b.names, name)
	b.items[name] = item
	m.names = append(m.names, name)
	m.items[name] = item
	return true
}

// Get returns the item with the given name.
func (m *Manager[T]) Get(name string) (T, bool) {
	item, ok := m.items[name]
	return item, ok
}

// Has returns whether an item with the given name exists.
func (m *Manager[T]) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// Len returns the number of items in the manager.
func (m *Manager[T]) Len() int {
	return len(m.items)
}

// Banks returns the banks in the order of their first registration.
func (m *Manager[T]) Banks() []*Bank[T] {
	return m.banks
}

// MarkUsed marks a name as used.
func (m *Manager[T]) MarkUsed(name string) {
	m.used.Add(name)
}

// Unused returns the names of all items that were never marked as used,
// in registration order.
func (m *Manager[T]) Unused() []string {
	var unused []string
	for _, name := range m.names {
		if !m.used.Contains(name) {
			unused = append(unused, name)
		}
	}
	return unused
}
