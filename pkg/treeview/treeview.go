package treeview

import (
	"errors"
	"time"

	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/metrics"
)

// EphemeralResetPolicy decides when the search-time open layer is dropped.
type EphemeralResetPolicy int

const (
	// ResetOnEveryChange drops the ephemeral layer on every change of the
	// search text, including each keystroke.
	ResetOnEveryChange EphemeralResetPolicy = iota
	// ResetOnClear drops it only when the search text becomes empty.
	ResetOnClear
)

func (p EphemeralResetPolicy) String() string {
	if p == ResetOnClear {
		return "on_clear"
	}
	return "every_change"
}

// Options configures a TreeView. Accessors is required.
type Options[T any] struct {
	Accessors  Accessors[T]
	Navigation Navigation[T]

	MultiSelect    bool
	ForceAllOpened bool
	InitiallyOpen  []string

	ResetPolicy    EphemeralResetPolicy
	CollapsePolicy SearchCollapsePolicy
	DetectCycles   bool

	// RowHeight is the fixed row height (default 1). ItemHeight, when set,
	// overrides it per item.
	RowHeight      int
	ItemHeight     func(T) int
	ViewportHeight int
	// Overscan of 0 selects DefaultOverscan; negative disables overscan.
	Overscan int
	// Scroller receives scroll requests. nil uses the built-in Virtualizer.
	Scroller ListScroller

	Clock             Clock
	AnimationDuration time.Duration

	OnSelectionChange func(items []T)
	OnCollapseItem    func(item T)
	OnActivate        func(item T)
	OnAnimationEnd    func(id string)
}

type flattenKey struct {
	items     uint64
	open      uint64
	selection uint64
	search    string
}

// TreeView wires the open state, selection, flattener, virtualizer,
// navigator and animation timer behind the operations a host UI calls.
// It is not safe for concurrent use; drive it from the UI goroutine.
type TreeView[T any] struct {
	opts      Options[T]
	roots     []T
	itemsGen  uint64
	search    string
	open      *OpenState
	selection *Selection[T]
	nav       Navigator[T]
	virt      *Virtualizer
	scroller  ListScroller
	anim      *AnimationTimer

	cached    *Flattened[T]
	cachedKey flattenKey
	cacheOK   bool
	err       error
}

// New creates a TreeView.
func New[T any](opts Options[T]) *TreeView[T] {
	overscan := opts.Overscan
	switch {
	case overscan == 0:
		overscan = DefaultOverscan
	case overscan < 0:
		overscan = 0
	}
	open := NewOpenState(opts.InitiallyOpen...)
	open.SetForceAllOpened(opts.ForceAllOpened)

	t := &TreeView[T]{
		opts:      opts,
		open:      open,
		selection: NewSelection[T](opts.MultiSelect),
		nav:       Navigator[T]{Navigation: opts.Navigation},
		virt:      NewVirtualizer(opts.RowHeight, opts.ViewportHeight, overscan),
		anim:      NewAnimationTimer(opts.Clock, opts.AnimationDuration, opts.OnAnimationEnd),
	}
	t.scroller = opts.Scroller
	if t.scroller == nil {
		t.scroller = t.virt
	}
	return t
}

// SetItems replaces the top-level items. Open state and selection are kept.
func (t *TreeView[T]) SetItems(roots []T) {
	t.roots = roots
	t.itemsGen++
}

// Items returns the current top-level items.
func (t *TreeView[T]) Items() []T { return t.roots }

// Refresh forces the next read to re-flatten, for hosts that mutated items
// in place.
func (t *TreeView[T]) Refresh() { t.itemsGen++ }

// SetSearchText updates the search filter and applies the reset policy to
// the ephemeral open layer.
func (t *TreeView[T]) SetSearchText(text string) {
	if text == t.search {
		return
	}
	t.search = text
	if t.opts.ResetPolicy == ResetOnEveryChange || text == "" {
		t.open.ResetEphemeral()
	}
}

// SearchText returns the active search text.
func (t *TreeView[T]) SearchText() string { return t.search }

// Searching reports whether a search is active.
func (t *TreeView[T]) Searching() bool { return t.search != "" }

// SetForceAllOpened toggles the external "everything open" override.
func (t *TreeView[T]) SetForceAllOpened(force bool) {
	t.open.SetForceAllOpened(force)
}

// Flattened returns the current rows, re-flattening only when the items,
// open state, selection or search text changed.
func (t *TreeView[T]) Flattened() *Flattened[T] {
	key := flattenKey{
		items:     t.itemsGen,
		open:      t.open.Version(),
		selection: t.selection.Version(),
		search:    t.search,
	}
	if t.cacheOK && key == t.cachedKey {
		return t.cached
	}

	start := time.Now()
	flat, err := Flatten(t.opts.Accessors, t.roots, t.open, t.search, t.selection, FlattenOptions{
		CollapsePolicy: t.opts.CollapsePolicy,
		DetectCycles:   t.opts.DetectCycles,
	})
	elapsed := time.Since(start)
	metrics.Flatten.Record(elapsed)
	debug.LogTiming("treeview.Flatten", elapsed)

	t.err = err
	if err != nil {
		debug.Log("treeview: flatten failed: %v", err)
		var malformed *MalformedTreeError
		if errors.As(err, &malformed) {
			debug.Dump("treeview: cycle path", malformed.Path)
		}
		flat = &Flattened[T]{}
	}
	t.cached = flat
	t.cachedKey = key
	t.cacheOK = true
	t.syncVirtualizer(flat)
	return flat
}

func (t *TreeView[T]) syncVirtualizer(flat *Flattened[T]) {
	t.virt.SetItemCount(flat.Len())
	if t.opts.ItemHeight == nil {
		return
	}
	rows := flat.Rows
	t.virt.SetItemHeight(func(i int) int { return t.opts.ItemHeight(rows[i].Item) })
}

// Rows is shorthand for Flattened().Rows.
func (t *TreeView[T]) Rows() []Row[T] {
	return t.Flattened().Rows
}

// Err returns the error of the last flatten pass, if any.
func (t *TreeView[T]) Err() error {
	t.Flattened()
	return t.err
}

// Open persistently opens ids.
func (t *TreeView[T]) Open(ids ...string) {
	if opened := t.open.Open(ids...); len(opened) > 0 {
		debug.Log("treeview: opened %v", opened)
	}
}

// Close persistently closes ids, firing OnCollapseItem for each id that was
// open, whether or not it is currently shown. No-op while force-all-opened
// is active.
func (t *TreeView[T]) Close(ids ...string) {
	rows := t.Flattened()
	closed := t.open.Close(ids...)
	if len(closed) == 0 || t.opts.OnCollapseItem == nil {
		return
	}
	var hidden []string
	for _, id := range closed {
		if i := rows.IndexOf(id); i >= 0 {
			t.opts.OnCollapseItem(rows.Rows[i].Item)
		} else {
			hidden = append(hidden, id)
		}
	}
	if len(hidden) == 0 {
		return
	}
	found := t.findItems(hidden)
	for _, id := range hidden {
		if item, ok := found[id]; ok {
			t.opts.OnCollapseItem(item)
		}
	}
}

// findItems walks the whole tree, shown or not, and returns the first item
// found for each of ids. Each id is expanded at most once, so aliases and
// cycles terminate.
func (t *TreeView[T]) findItems(ids []string) map[string]T {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	found := make(map[string]T, len(ids))
	visited := make(map[string]bool)
	stack := append([]T(nil), t.roots...)
	for len(stack) > 0 && len(found) < len(want) {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := t.opts.Accessors.ID(item)
		if visited[id] {
			continue
		}
		visited[id] = true
		if want[id] {
			found[id] = item
		}
		if children, ok := t.opts.Accessors.Children(item); ok {
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
	return found
}

// AreOpen reports persistent open state for ids.
func (t *TreeView[T]) AreOpen(ids []string) []bool {
	return t.open.AreOpen(ids)
}

// AreItemsOpen is AreOpen keyed by items.
func (t *TreeView[T]) AreItemsOpen(items []T) []bool {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = t.opts.Accessors.ID(item)
	}
	return t.open.AreOpen(ids)
}

// OpenIDs returns the persistently open ids, sorted.
func (t *TreeView[T]) OpenIDs() []string {
	return t.open.Persistent()
}

// setOpen routes an expand or collapse to the layer matching the mode:
// ephemeral while searching, persistent otherwise.
func (t *TreeView[T]) setOpen(id string, open bool) {
	switch {
	case t.Searching() && open:
		t.open.OpenDuringSearch(id)
	case t.Searching():
		t.open.CloseDuringSearch(id)
	case open:
		t.Open(id)
	default:
		t.Close(id)
	}
}

// Toggle flips a row's expand state the way its disclosure button does.
// Rows without children and rows whose collapse is disabled by an active
// search are left alone.
func (t *TreeView[T]) Toggle(row Row[T]) bool {
	if !row.HasChildren || row.DisableCollapse {
		return false
	}
	return t.toggle(row)
}

func (t *TreeView[T]) toggle(row Row[T]) bool {
	if !row.CanHaveChildren {
		return false
	}
	before := t.open.Version()
	t.setOpen(row.ID, row.Collapsed)
	return t.open.Version() != before
}

// Click applies a pointer click on row: root rows toggle, placeholder rows
// are ignored, other rows are selected (exclusive unless a modifier was
// held) and then activated.
func (t *TreeView[T]) Click(row Row[T], exclusive bool) {
	switch {
	case row.IsPlaceholder:
		return
	case row.IsRoot:
		t.toggle(row)
		return
	}
	t.Select([]T{row.Item}, exclusive)
	if t.opts.OnActivate != nil {
		t.opts.OnActivate(row.Item)
	}
}

// Select applies selection semantics. A single item gets click semantics;
// several items replace the selection when exclusive and are toggled one
// by one otherwise. OnSelectionChange fires when the selection changed.
func (t *TreeView[T]) Select(items []T, exclusive bool) {
	id := t.opts.Accessors.ID
	changed := false
	switch {
	case len(items) == 1:
		changed = t.selection.Click(id(items[0]), items[0], exclusive)
	case exclusive:
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = id(item)
		}
		changed = t.selection.Set(ids, items)
	default:
		for _, item := range items {
			if t.selection.Click(id(item), item, false) {
				changed = true
			}
		}
	}
	if changed {
		t.selectionChanged()
	}
}

// SetSelection replaces the selection outright.
func (t *TreeView[T]) SetSelection(items []T) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = t.opts.Accessors.ID(item)
	}
	if t.selection.Set(ids, items) {
		t.selectionChanged()
	}
}

func (t *TreeView[T]) selectionChanged() {
	if t.opts.OnSelectionChange != nil {
		t.opts.OnSelectionChange(t.selection.Items())
	}
}

// Selected returns the selected items in selection order.
func (t *TreeView[T]) Selected() []T { return t.selection.Items() }

// SelectedIDs returns the selected ids in selection order.
func (t *TreeView[T]) SelectedIDs() []string { return t.selection.IDs() }

// FocusIndex returns the row index of the first selected item, or -1.
func (t *TreeView[T]) FocusIndex() int {
	id, _, ok := t.selection.First()
	if !ok {
		return -1
	}
	return t.Flattened().IndexOf(id)
}

// ScrollToID scrolls to the last row carrying id. Returns false when no
// row matches.
func (t *TreeView[T]) ScrollToID(id string, placement Placement) bool {
	i := t.Flattened().LastIndexOf(id)
	if i < 0 {
		return false
	}
	t.scroller.ScrollToItem(i, placement)
	return true
}

// ScrollToItem is ScrollToID keyed by item.
func (t *TreeView[T]) ScrollToItem(item T, placement Placement) bool {
	return t.ScrollToID(t.opts.Accessors.ID(item), placement)
}

// Animate highlights id for AnimationDuration.
func (t *TreeView[T]) Animate(id string) { t.anim.Animate(id) }

// AnimateItem is Animate keyed by item.
func (t *TreeView[T]) AnimateItem(item T) { t.anim.Animate(t.opts.Accessors.ID(item)) }

// IsAnimating reports whether id is currently highlighted.
func (t *TreeView[T]) IsAnimating(id string) bool { return t.anim.IsAnimating(id) }

// HandleKey applies a navigation key. Returns false for keys the
// navigator does not handle.
func (t *TreeView[T]) HandleKey(key Key) bool {
	rows := t.Flattened()
	selectedID, _, hasSelection := t.selection.First()
	out := t.nav.Next(key, rows, selectedID, hasSelection)
	if !out.Handled {
		return false
	}
	switch {
	case out.Expand != "":
		t.setOpen(out.Expand, true)
	case out.Collapse != "":
		t.setOpen(out.Collapse, false)
	case out.Activate:
		if t.opts.OnActivate != nil {
			t.opts.OnActivate(out.ActivateItem)
		}
	case out.HasFocus:
		t.ScrollToItem(out.Focus, PlacementSmart)
		t.SetSelection([]T{out.Focus})
	}
	return true
}

// Virtualizer exposes the built-in virtualizer.
func (t *TreeView[T]) Virtualizer() *Virtualizer {
	t.Flattened()
	return t.virt
}

// SetViewportHeight updates the built-in virtualizer's container height.
func (t *TreeView[T]) SetViewportHeight(h int) { t.virt.SetViewportHeight(h) }

// VisibleWindow returns the rows to realize at scrollOffset.
func (t *TreeView[T]) VisibleWindow(scrollOffset int) VisibleWindow {
	t.Flattened()
	defer metrics.Timer(metrics.Window)()
	return t.virt.Window(scrollOffset)
}

// Stop releases the animation timer. The TreeView must not be animated
// afterwards.
func (t *TreeView[T]) Stop() { t.anim.Stop() }
