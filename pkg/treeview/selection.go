package treeview

// Selection is an ordered set of selected items keyed by id.
// In single-select mode it never holds more than one entry.
type Selection[T any] struct {
	multi   bool
	ids     []string
	items   []T
	index   map[string]int
	version uint64
}

// NewSelection creates an empty selection.
func NewSelection[T any](multi bool) *Selection[T] {
	return &Selection[T]{multi: multi, index: make(map[string]int)}
}

// Multi reports whether multi-select is enabled.
func (s *Selection[T]) Multi() bool { return s.multi }

// Click applies the click semantics of a row:
//
//	single, already sole selection  -> no-op
//	single, otherwise               -> replace
//	multi, selected, exclusive      -> no-op if sole, else replace
//	multi, selected, !exclusive     -> remove
//	multi, unselected, exclusive    -> replace
//	multi, unselected, !exclusive   -> append
//
// Returns true when the selection changed.
func (s *Selection[T]) Click(id string, item T, exclusive bool) bool {
	selected := s.Contains(id)
	if !s.multi {
		if selected && len(s.ids) == 1 {
			return false
		}
		s.replace([]string{id}, []T{item})
		return true
	}
	switch {
	case selected && exclusive:
		if len(s.ids) == 1 {
			return false
		}
		s.replace([]string{id}, []T{item})
	case selected:
		s.remove(id)
	case exclusive:
		s.replace([]string{id}, []T{item})
	default:
		s.append(id, item)
	}
	return true
}

// Set replaces the selection. Duplicate ids keep their first occurrence;
// in single-select mode only the first entry is kept.
func (s *Selection[T]) Set(ids []string, items []T) bool {
	n := len(ids)
	if len(items) < n {
		n = len(items)
	}
	nextIDs := make([]string, 0, n)
	nextItems := make([]T, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if seen[ids[i]] {
			continue
		}
		seen[ids[i]] = true
		nextIDs = append(nextIDs, ids[i])
		nextItems = append(nextItems, items[i])
		if !s.multi {
			break
		}
	}
	if equalIDs(nextIDs, s.ids) {
		return false
	}
	s.replace(nextIDs, nextItems)
	return true
}

// Clear empties the selection.
func (s *Selection[T]) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.replace(nil, nil)
	return true
}

// Contains reports whether id is selected.
func (s *Selection[T]) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// IDs returns a copy of the selected ids in selection order.
func (s *Selection[T]) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Items returns a copy of the selected items in selection order.
func (s *Selection[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// First returns the earliest selected item.
func (s *Selection[T]) First() (id string, item T, ok bool) {
	if len(s.ids) == 0 {
		return "", item, false
	}
	return s.ids[0], s.items[0], true
}

// Len returns the number of selected items.
func (s *Selection[T]) Len() int { return len(s.ids) }

// Version changes on every effective mutation.
func (s *Selection[T]) Version() uint64 { return s.version }

func (s *Selection[T]) replace(ids []string, items []T) {
	s.ids = ids
	s.items = items
	s.reindex()
	s.version++
}

func (s *Selection[T]) append(id string, item T) {
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.items = append(s.items, item)
	s.version++
}

func (s *Selection[T]) remove(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.reindex()
	s.version++
}

func (s *Selection[T]) reindex() {
	s.index = make(map[string]int, len(s.ids))
	for i, id := range s.ids {
		s.index[id] = i
	}
}

func equalIDs(a, b []string) bool {
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
