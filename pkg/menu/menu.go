// Package menu holds the fixed allow-list of food names a restaurant accepts.
package menu

import "strings"

// Menu is an immutable set of food names. The zero value is an empty menu.
type Menu struct {
	items []string
	set   map[string]struct{}
}

// New builds a menu from the given items. Blank and repeated names are skipped.
func New(items ...string) Menu {
	m := Menu{set: make(map[string]struct{}, len(items))}
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		if _, ok := m.set[it]; ok {
			continue
		}
		m.set[it] = struct{}{}
		m.items = append(m.items, it)
	}
	return m
}

// Default returns the house menu.
func Default() Menu {
	return New("Pizza", "Burger", "Pasta", "Salad")
}

// Contains reports whether food is on the menu. Matching is exact.
func (m Menu) Contains(food string) bool {
	_, ok := m.set[food]
	return ok
}

// Items returns a copy of the menu entries in the order they were declared.
func (m Menu) Items() []string {
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out
}

// Len reports the number of entries.
func (m Menu) Len() int { return len(m.items) }
