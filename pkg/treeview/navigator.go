package treeview

// Key identifies a navigation key.
type Key string

const (
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyEnter      Key = "Enter"
)

// NavigationKeys lists every key the navigator reacts to.
var NavigationKeys = []Key{KeyArrowDown, KeyArrowUp, KeyArrowRight, KeyArrowLeft, KeyEnter}

// IsNavigationKey reports whether k is one of NavigationKeys.
func IsNavigationKey(k Key) bool {
	for _, nk := range NavigationKeys {
		if nk == k {
			return true
		}
	}
	return false
}

// Outcome is what a key press asks the owner to do. At most one of Focus,
// Expand, Collapse and Activate is set.
type Outcome[T any] struct {
	Handled bool // key was a navigation key

	HasFocus bool
	Focus    T // item to select and scroll to

	Expand   string // id to open
	Collapse string // id to close

	Activate     bool
	ActivateItem T
}

// Navigator turns a key press into an Outcome. It holds no state of its
// own: the current index is looked up in the rows on every call.
type Navigator[T any] struct {
	Navigation Navigation[T]
}

// Next computes the outcome of key given the current rows and the id of
// the selected item (ignored when hasSelection is false).
func (n Navigator[T]) Next(key Key, rows *Flattened[T], selectedID string, hasSelection bool) Outcome[T] {
	var out Outcome[T]
	if !IsNavigationKey(key) {
		return out
	}
	out.Handled = true

	index := -1
	if hasSelection {
		index = rows.IndexOf(selectedID)
	}
	if index < 0 {
		if i := scanFocusable(rows, 0, 1); i >= 0 {
			out.HasFocus = true
			out.Focus = rows.Rows[i].Item
		}
		return out
	}

	row := rows.Rows[index]
	switch key {
	case KeyArrowDown:
		if i := scanFocusable(rows, index+1, 1); i >= 0 {
			out.HasFocus = true
			out.Focus = rows.Rows[i].Item
		}
	case KeyArrowUp:
		if i := scanFocusable(rows, index-1, -1); i >= 0 {
			out.HasFocus = true
			out.Focus = rows.Rows[i].Item
		}
	case KeyArrowRight:
		if row.CanHaveChildren && row.Collapsed {
			out.Expand = row.ID
			return out
		}
		if n.Navigation.Inside != nil {
			out.Focus, out.HasFocus = n.Navigation.Inside(row.Item)
			return out
		}
		if c := rows.FirstChild(index); c >= 0 && rows.Rows[c].Focusable() {
			out.HasFocus = true
			out.Focus = rows.Rows[c].Item
		}
	case KeyArrowLeft:
		// A row held open by matching descendants cannot collapse, so
		// Left moves out instead.
		if row.CanHaveChildren && !row.Collapsed && !row.DisableCollapse {
			out.Collapse = row.ID
			return out
		}
		if n.Navigation.Outside != nil {
			out.Focus, out.HasFocus = n.Navigation.Outside(row.Item)
			return out
		}
		if p := rows.Parent(index); p >= 0 && rows.Rows[p].Focusable() {
			out.HasFocus = true
			out.Focus = rows.Rows[p].Item
		}
	case KeyEnter:
		out.Activate = true
		out.ActivateItem = row.Item
	}
	return out
}

// scanFocusable walks from start in direction step and returns the first
// focusable row index, or -1 when the edge is reached.
func scanFocusable[T any](rows *Flattened[T], start, step int) int {
	for i := start; i >= 0 && i < rows.Len(); i += step {
		if rows.Rows[i].Focusable() {
			return i
		}
	}
	return -1
}
