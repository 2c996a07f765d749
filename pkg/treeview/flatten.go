package treeview

import "strings"

// Row is one entry of the flattened sequence.
type Row[T any] struct {
	ID          string
	Name        string
	Description string
	Thumbnail   string
	Dataset     map[string]string
	Depth       int

	HasChildren     bool // children present and non-empty
	CanHaveChildren bool // children present, possibly empty (folder vs leaf)
	Collapsed       bool
	Selected        bool
	DisableCollapse bool // searching and shown only because of matches

	IsRoot        bool
	IsPlaceholder bool

	Item T
}

// Focusable reports whether the row may take selection or keyboard focus.
func (r Row[T]) Focusable() bool {
	return !r.IsRoot && !r.IsPlaceholder
}

// SearchCollapsePolicy decides the Collapsed flag of rows while searching.
type SearchCollapsePolicy int

const (
	// CollapseWithoutVisibleChildren marks a row collapsed only when none of
	// its descendants are shown. A folder displayed because a child matched
	// reads as expanded.
	CollapseWithoutVisibleChildren SearchCollapsePolicy = iota

	// CollapseUnlessOpenedDuringSearch also marks rows collapsed when they
	// were not explicitly opened during the search, even if matching
	// descendants are shown below them.
	CollapseUnlessOpenedDuringSearch
)

func (p SearchCollapsePolicy) String() string {
	switch p {
	case CollapseUnlessOpenedDuringSearch:
		return "unless_opened"
	default:
		return "without_visible_children"
	}
}

// OpenReader is the read side of OpenState used by Flatten.
type OpenReader interface {
	IsOpen(id string) bool
	IsOpenDuringSearch(id string) bool
	ForceAllOpened() bool
}

// SelectionReader is the read side of Selection used by Flatten.
type SelectionReader interface {
	Contains(id string) bool
}

// FlattenOptions tunes a flatten pass.
type FlattenOptions struct {
	CollapsePolicy SearchCollapsePolicy
	// DetectCycles keeps a visited set along the current path and fails
	// with a MalformedTreeError instead of recursing forever.
	DetectCycles bool
}

// Flattened is the result of a flatten pass: the rows plus a parent table
// built in the same walk.
type Flattened[T any] struct {
	Rows    []Row[T]
	parents []int
}

// Len returns the number of rows.
func (f *Flattened[T]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Parent returns the row index of row i's parent, or -1 for top-level rows
// and out of range indices.
func (f *Flattened[T]) Parent(i int) int {
	if f == nil || i < 0 || i >= len(f.parents) {
		return -1
	}
	return f.parents[i]
}

// FirstChild returns the index of the first emitted child of row i, or -1.
func (f *Flattened[T]) FirstChild(i int) int {
	if f == nil || i < 0 || i+1 >= len(f.parents) {
		return -1
	}
	if f.parents[i+1] == i {
		return i + 1
	}
	return -1
}

// IndexOf returns the first row index with the given id, or -1.
func (f *Flattened[T]) IndexOf(id string) int {
	if f == nil {
		return -1
	}
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last row index with the given id, or -1.
// The same id can appear several times when an item is reachable from more
// than one parent.
func (f *Flattened[T]) LastIndexOf(id string) int {
	if f == nil {
		return -1
	}
	for i := len(f.Rows) - 1; i >= 0; i-- {
		if f.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Flatten turns the forest under roots into display rows.
//
// For each node, top-down:
//  1. collapsed0 = !forceAllOpened && !open.IsOpen(id)
//  2. children are walked if present and (forced, !collapsed0, searching,
//     or opened during search); each child learns whether its parent was
//     opened during search (forceOpen)
//  3. the node is emitted if not searching, forced, forceOpen, not
//     searchable, its name contains the search text (case-insensitive), or
//     at least one descendant was emitted
//
// Flatten does not mutate its inputs. selection may be nil.
func Flatten[T any](acc Accessors[T], roots []T, open OpenReader, searchText string, selection SelectionReader, opts FlattenOptions) (*Flattened[T], error) {
	if !acc.valid() {
		return nil, ErrNoAccessors
	}
	f := &flattener[T]{
		acc:       acc,
		open:      open,
		search:    strings.ToLower(searchText),
		selection: selection,
		opts:      opts,
		out:       &Flattened[T]{},
	}
	if opts.DetectCycles {
		f.onPath = make(map[string]bool)
	}
	for _, root := range roots {
		if err := f.node(root, 0, -1, false); err != nil {
			return nil, err
		}
	}
	return f.out, nil
}

type flattener[T any] struct {
	acc       Accessors[T]
	open      OpenReader
	search    string
	selection SelectionReader
	opts      FlattenOptions
	out       *Flattened[T]

	onPath map[string]bool
	path   []string
}

func (f *flattener[T]) node(item T, depth, parent int, forceOpen bool) error {
	id := f.acc.ID(item)
	if f.onPath != nil {
		if f.onPath[id] {
			return &MalformedTreeError{ID: id, Path: append(append([]string(nil), f.path...), id)}
		}
		f.onPath[id] = true
		f.path = append(f.path, id)
		defer func() {
			delete(f.onPath, id)
			f.path = f.path[:len(f.path)-1]
		}()
	}

	forceAll := f.open.ForceAllOpened()
	searching := f.search != ""
	children, canHaveChildren := f.acc.Children(item)
	collapsed := !forceAll && !f.open.IsOpen(id)
	openedDuringSearch := f.open.IsOpenDuringSearch(id)

	// Reserve the slot so the node lands before its descendants; it is
	// dropped again below if neither it nor any descendant qualifies.
	pos := len(f.out.Rows)
	f.out.Rows = append(f.out.Rows, Row[T]{})
	f.out.parents = append(f.out.parents, parent)

	if canHaveChildren && len(children) > 0 &&
		(forceAll || !collapsed || searching || openedDuringSearch) {
		for _, child := range children {
			if err := f.node(child, depth+1, pos, openedDuringSearch); err != nil {
				return err
			}
		}
	}
	shownDescendants := len(f.out.Rows) - pos - 1

	name := f.acc.Name(item)
	include := !searching ||
		forceAll ||
		forceOpen ||
		!f.acc.searchable(item) ||
		strings.Contains(strings.ToLower(name), f.search) ||
		shownDescendants > 0
	if !include {
		f.out.Rows = f.out.Rows[:pos]
		f.out.parents = f.out.parents[:pos]
		return nil
	}

	rowCollapsed := collapsed
	if searching {
		rowCollapsed = shownDescendants == 0
		if f.opts.CollapsePolicy == CollapseUnlessOpenedDuringSearch {
			rowCollapsed = rowCollapsed || !openedDuringSearch
		}
	}

	f.out.Rows[pos] = Row[T]{
		ID:              id,
		Name:            name,
		Description:     f.acc.description(item),
		Thumbnail:       f.acc.thumbnail(item),
		Dataset:         f.acc.dataset(item),
		Depth:           depth,
		HasChildren:     canHaveChildren && len(children) > 0,
		CanHaveChildren: canHaveChildren,
		Collapsed:       rowCollapsed,
		Selected:        f.selection != nil && f.selection.Contains(id),
		DisableCollapse: searching && shownDescendants > 0 && !openedDuringSearch,
		IsRoot:          f.acc.isRoot(item),
		IsPlaceholder:   f.acc.isPlaceholder(item),
		Item:            item,
	}
	return nil
}
