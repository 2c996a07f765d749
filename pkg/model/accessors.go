package model

import "github.com/vanderheijden86/canopy/pkg/treeview"

// Accessors returns the accessor bundle the tree engine reads items
// through.
func Accessors() treeview.Accessors[*Item] {
	return treeview.Accessors[*Item]{
		ID:            func(it *Item) string { return it.ID },
		Name:          func(it *Item) string { return it.Name },
		Children:      (*Item).Children,
		Description:   func(it *Item) string { return it.Description },
		Thumbnail:     func(it *Item) string { return it.Thumbnail },
		Dataset:       func(it *Item) map[string]string { return it.Dataset },
		Searchable:    func(it *Item) bool { return it.Kind.Searchable() },
		IsRoot:        func(it *Item) bool { return it.Kind == KindRoot },
		IsPlaceholder: func(it *Item) bool { return it.Kind == KindPlaceholder },
	}
}

// Navigation moves focus into a container's first focusable child and out
// to the first focusable parent. Root items are never returned.
func (f *Forest) Navigation() treeview.Navigation[*Item] {
	return treeview.Navigation[*Item]{
		Inside: func(it *Item) (*Item, bool) {
			children, _ := it.Children()
			for _, child := range children {
				if focusable(child) {
					return child, true
				}
			}
			return nil, false
		},
		Outside: func(it *Item) (*Item, bool) {
			for _, id := range f.parents[it.ID] {
				if parent, ok := f.items[id]; ok && focusable(parent) {
					return parent, true
				}
			}
			return nil, false
		},
	}
}

func focusable(it *Item) bool {
	return it.Kind != KindRoot && it.Kind != KindPlaceholder
}
