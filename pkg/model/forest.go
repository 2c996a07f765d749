// Package model holds canopy's concrete tree: an arena of items keyed by id
// with ordered child id lists and a parent table.
//
// An id may be listed under several parents. Such aliases make the same
// item reachable along different paths, so it can show up more than once in
// the flattened rows.
package model

import (
	"errors"
	"fmt"
	"sort"
)

// Forest errors
var (
	// ErrDuplicateID indicates that two items share an id.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrUnknownRef indicates a child or root reference to an id that was
	// never defined.
	ErrUnknownRef = errors.New("reference to unknown item")
)

// Item is one node of the forest.
type Item struct {
	ID          string
	Name        string
	Description string
	Thumbnail   string
	Kind        Kind
	Dataset     map[string]string

	// Height is the row height in lines; 0 means one line.
	Height int

	// ChildIDs lists children in display order.
	ChildIDs []string

	// Source is the file or table the item was loaded from.
	Source string

	forest *Forest
}

// Forest is an arena of items with an ordered list of top-level ids.
type Forest struct {
	items   map[string]*Item
	order   []string
	roots   []string
	parents map[string][]string
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{
		items:   make(map[string]*Item),
		parents: make(map[string][]string),
	}
}

// Add stores item. The item's ChildIDs are linked immediately; ids that
// are not defined yet are resolved by Validate.
func (f *Forest) Add(item *Item) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("add item: empty id")
	}
	if _, ok := f.items[item.ID]; ok {
		return fmt.Errorf("add item %q: %w", item.ID, ErrDuplicateID)
	}
	item.forest = f
	f.items[item.ID] = item
	f.order = append(f.order, item.ID)
	for _, child := range item.ChildIDs {
		f.parents[child] = append(f.parents[child], item.ID)
	}
	return nil
}

// AddRoot appends id to the top-level list.
func (f *Forest) AddRoot(id string) {
	f.roots = append(f.roots, id)
}

// Link appends childID under parentID.
func (f *Forest) Link(parentID, childID string) error {
	parent, ok := f.items[parentID]
	if !ok {
		return fmt.Errorf("link %q under %q: %w", childID, parentID, ErrUnknownRef)
	}
	parent.ChildIDs = append(parent.ChildIDs, childID)
	f.parents[childID] = append(f.parents[childID], parentID)
	return nil
}

// Validate checks that every root and child reference resolves.
func (f *Forest) Validate() error {
	var errs []error
	for _, id := range f.roots {
		if _, ok := f.items[id]; !ok {
			errs = append(errs, fmt.Errorf("root %q: %w", id, ErrUnknownRef))
		}
	}
	for _, id := range f.order {
		for _, child := range f.items[id].ChildIDs {
			if _, ok := f.items[child]; !ok {
				errs = append(errs, fmt.Errorf("child %q of %q: %w", child, id, ErrUnknownRef))
			}
		}
	}
	return errors.Join(errs...)
}

// Get looks up an item by id.
func (f *Forest) Get(id string) (*Item, bool) {
	item, ok := f.items[id]
	return item, ok
}

// Len returns the number of items.
func (f *Forest) Len() int { return len(f.items) }

// IDs returns every item id in insertion order.
func (f *Forest) IDs() []string {
	return append([]string(nil), f.order...)
}

// RootIDs returns the top-level ids.
func (f *Forest) RootIDs() []string {
	return append([]string(nil), f.roots...)
}

// Roots returns the top-level items, skipping unknown ids.
func (f *Forest) Roots() []*Item {
	return f.resolve(f.roots)
}

// Parents returns the ids of every item listing id as a child, sorted.
func (f *Forest) Parents(id string) []string {
	parents := append([]string(nil), f.parents[id]...)
	sort.Strings(parents)
	return parents
}

// Merge moves every item and root of other into f. Items keep their
// forest pointer updated; id clashes fail with ErrDuplicateID and leave f
// partially merged.
func (f *Forest) Merge(other *Forest) error {
	for _, id := range other.order {
		if err := f.Add(other.items[id]); err != nil {
			return err
		}
	}
	f.roots = append(f.roots, other.roots...)
	return nil
}

func (f *Forest) resolve(ids []string) []*Item {
	out := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Children returns the item's resolved children and whether it can hold
// children at all.
func (it *Item) Children() ([]*Item, bool) {
	if !it.Kind.Container() && len(it.ChildIDs) == 0 {
		return nil, false
	}
	if it.forest == nil {
		return nil, true
	}
	return it.forest.resolve(it.ChildIDs), true
}

// RowHeight returns the item's display height in lines.
func (it *Item) RowHeight() int {
	if it.Height < 1 {
		return 1
	}
	return it.Height
}
