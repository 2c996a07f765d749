package treeview

import (
	"time"
)

// node is a minimal host item for engine tests.
type node struct {
	id          string
	name        string
	children    []*node
	leaf        bool
	root        bool
	placeholder bool
	noSearch    bool
}

func folder(id string, children ...*node) *node {
	return &node{id: id, name: id, children: children}
}

func leaf(id string) *node {
	return &node{id: id, name: id, leaf: true}
}

func testAccessors() Accessors[*node] {
	return Accessors[*node]{
		ID:   func(n *node) string { return n.id },
		Name: func(n *node) string { return n.name },
		Children: func(n *node) ([]*node, bool) {
			if n.leaf {
				return nil, false
			}
			return n.children, true
		},
		Searchable:    func(n *node) bool { return !n.noSearch },
		IsRoot:        func(n *node) bool { return n.root },
		IsPlaceholder: func(n *node) bool { return n.placeholder },
	}
}

// sampleTree is root -> [A, B -> [C, D]].
func sampleTree() *node {
	r := folder("root", leaf("A"), folder("B", leaf("C"), leaf("D")))
	r.root = true
	return r
}

func rowIDs[T any](rows []Row[T]) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func rowByID[T any](rows []Row[T], id string) (Row[T], bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	var zero Row[T]
	return zero, false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fakeClock fires timers only when Advance passes their deadline.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			t.f()
		}
	}
}

// pending returns timers that were armed and never stopped or fired.
func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
