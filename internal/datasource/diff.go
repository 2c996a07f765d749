package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// ForestDiff describes what changed between two loads of the same sources.
type ForestDiff struct {
	// Added contains ids present in the new forest only, in new load order
	Added []string
	// Removed contains ids present in the old forest only, sorted
	Removed []string
	// Changed contains ids whose name, description or children differ, sorted
	Changed []string
	// CountOld is the number of items before the reload
	CountOld int
	// CountNew is the number of items after the reload
	CountNew int
}

// HasChanges returns true if the forests differ
func (d ForestDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// Summary returns a short human-readable summary of the differences
func (d ForestDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("No changes (%d items)", d.CountNew)
	}
	var parts []string
	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(d.Added)))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(d.Removed)))
	}
	if len(d.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", len(d.Changed)))
	}
	return strings.Join(parts, ", ")
}

// DiffForests compares two forests by id. A nil old forest treats
// everything in next as added.
func DiffForests(old, next *model.Forest) ForestDiff {
	var d ForestDiff
	if next != nil {
		d.CountNew = next.Len()
	}
	if old != nil {
		d.CountOld = old.Len()
	}

	if next != nil {
		for _, id := range next.IDs() {
			n, _ := next.Get(id)
			o, ok := lookup(old, id)
			switch {
			case !ok:
				d.Added = append(d.Added, id)
			case itemChanged(o, n):
				d.Changed = append(d.Changed, id)
			}
		}
	}
	if old != nil {
		for _, id := range old.IDs() {
			if _, ok := lookup(next, id); !ok {
				d.Removed = append(d.Removed, id)
			}
		}
	}
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}

func lookup(f *model.Forest, id string) (*model.Item, bool) {
	if f == nil {
		return nil, false
	}
	return f.Get(id)
}

func itemChanged(a, b *model.Item) bool {
	if a.Name != b.Name || a.Description != b.Description || a.Kind != b.Kind {
		return true
	}
	if len(a.ChildIDs) != len(b.ChildIDs) {
		return true
	}
	for i := range a.ChildIDs {
		if a.ChildIDs[i] != b.ChildIDs[i] {
			return true
		}
	}
	return false
}
