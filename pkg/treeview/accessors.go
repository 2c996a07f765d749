// Package treeview is the non-visual engine behind a virtualized,
// searchable, keyboard-navigable tree list.
//
// The host owns the tree and exposes it through an Accessors bundle. The
// engine flattens it into rows (pre-order, host child order), keeps the
// persistent and search-time expand state apart, computes which rows must
// be realized for a scroll position, maps arrow keys onto selection and
// expand changes, and tracks a single briefly highlighted row.
//
// Everything here is synchronous and meant to be driven from one goroutine;
// only the animation timer fires asynchronously and it is mutex guarded.
package treeview

// Accessors is the capability surface the engine needs from host items.
// ID, Name and Children are required; the others may be nil.
type Accessors[T any] struct {
	ID   func(T) string
	Name func(T) string

	// Children returns the ordered children and whether the item can hold
	// children at all. ok == false means a leaf; ok with an empty slice is an
	// expandable but empty folder.
	Children func(T) (children []T, ok bool)

	Description func(T) string
	Thumbnail   func(T) string
	Dataset     func(T) map[string]string

	// Searchable reports whether search text is applied to the item's name.
	// Items that opt out are always shown while searching. nil means every
	// item is searchable.
	Searchable func(T) bool

	// IsRoot and IsPlaceholder mark structural rows that can never take
	// selection or keyboard focus.
	IsRoot        func(T) bool
	IsPlaceholder func(T) bool
}

func (a Accessors[T]) valid() bool {
	return a.ID != nil && a.Name != nil && a.Children != nil
}

func (a Accessors[T]) description(item T) string {
	if a.Description == nil {
		return ""
	}
	return a.Description(item)
}

func (a Accessors[T]) thumbnail(item T) string {
	if a.Thumbnail == nil {
		return ""
	}
	return a.Thumbnail(item)
}

func (a Accessors[T]) dataset(item T) map[string]string {
	if a.Dataset == nil {
		return nil
	}
	return a.Dataset(item)
}

func (a Accessors[T]) searchable(item T) bool {
	if a.Searchable == nil {
		return true
	}
	return a.Searchable(item)
}

func (a Accessors[T]) isRoot(item T) bool {
	return a.IsRoot != nil && a.IsRoot(item)
}

func (a Accessors[T]) isPlaceholder(item T) bool {
	return a.IsPlaceholder != nil && a.IsPlaceholder(item)
}

// Navigation lets the host move focus across sibling trees, e.g. from an
// object into the group that contains it. Both functions may be nil.
type Navigation[T any] struct {
	Inside  func(T) (T, bool)
	Outside func(T) (T, bool)
}
