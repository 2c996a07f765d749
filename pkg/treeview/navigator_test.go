package treeview

import "testing"

func openRows(t *testing.T) *Flattened[*node] {
	t.Helper()
	return flatten(t, []*node{sampleTree()}, NewOpenState("root", "B"), "", nil, FlattenOptions{})
}

func focusID(t *testing.T, out Outcome[*node]) string {
	t.Helper()
	if !out.HasFocus {
		return ""
	}
	return out.Focus.id
}

func TestNavigatorFocusesFirstFocusableWithoutSelection(t *testing.T) {
	var n Navigator[*node]
	rows := openRows(t)
	for _, key := range NavigationKeys {
		out := n.Next(key, rows, "", false)
		if got := focusID(t, out); got != "A" {
			t.Errorf("%s without selection: expected focus A (root is not focusable), got %q", key, got)
		}
	}
	if out := n.Next(KeyArrowDown, rows, "gone", true); focusID(t, out) != "A" {
		t.Error("a selection missing from the rows behaves like no selection")
	}
}

func TestNavigatorUpDown(t *testing.T) {
	var n Navigator[*node]
	rows := openRows(t)

	if got := focusID(t, n.Next(KeyArrowDown, rows, "A", true)); got != "B" {
		t.Errorf("down from A: got %q", got)
	}
	if got := focusID(t, n.Next(KeyArrowDown, rows, "D", true)); got != "" {
		t.Errorf("down from the last row should not move, got %q", got)
	}
	out := n.Next(KeyArrowUp, rows, "A", true)
	if !out.Handled || out.HasFocus {
		t.Errorf("up from A skips the root and stays: %+v", out)
	}
}

func TestNavigatorRightLeft(t *testing.T) {
	var n Navigator[*node]
	rows := openRows(t)

	if got := focusID(t, n.Next(KeyArrowRight, rows, "B", true)); got != "C" {
		t.Errorf("right on open B moves to first child, got %q", got)
	}
	if out := n.Next(KeyArrowLeft, rows, "B", true); out.Collapse != "B" {
		t.Errorf("left on open B collapses it: %+v", out)
	}
	if got := focusID(t, n.Next(KeyArrowLeft, rows, "C", true)); got != "B" {
		t.Errorf("left on leaf C moves to parent, got %q", got)
	}
	if out := n.Next(KeyArrowLeft, rows, "A", true); out.HasFocus || out.Collapse != "" {
		t.Errorf("left on A must not focus the root row: %+v", out)
	}
	if out := n.Next(KeyArrowRight, rows, "A", true); out.HasFocus || out.Expand != "" {
		t.Errorf("right on a leaf does nothing: %+v", out)
	}

	closed := flatten(t, []*node{sampleTree()}, NewOpenState("root"), "", nil, FlattenOptions{})
	if out := n.Next(KeyArrowRight, closed, "B", true); out.Expand != "B" {
		t.Errorf("right on collapsed B expands it: %+v", out)
	}
}

func TestNavigatorUsesHostNavigation(t *testing.T) {
	rows := openRows(t)
	target := leaf("elsewhere")
	n := Navigator[*node]{Navigation: Navigation[*node]{
		Inside:  func(*node) (*node, bool) { return target, true },
		Outside: func(*node) (*node, bool) { return nil, false },
	}}

	if got := focusID(t, n.Next(KeyArrowRight, rows, "A", true)); got != "elsewhere" {
		t.Errorf("Inside should decide focus, got %q", got)
	}
	if out := n.Next(KeyArrowLeft, rows, "C", true); out.HasFocus {
		t.Errorf("Outside returning false leaves focus alone: %+v", out)
	}
}

func TestNavigatorEnterAndOtherKeys(t *testing.T) {
	var n Navigator[*node]
	rows := openRows(t)

	out := n.Next(KeyEnter, rows, "C", true)
	if !out.Activate || out.ActivateItem.id != "C" {
		t.Errorf("enter activates the selected row: %+v", out)
	}
	if out := n.Next(Key("Tab"), rows, "C", true); out.Handled {
		t.Error("non-navigation keys are not handled")
	}
}
