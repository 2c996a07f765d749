package treeview

import "sort"

// OpenState holds which nodes are expanded.
//
// Two layers are kept apart:
//   - persistent: ids the user opened outside of a search
//   - ephemeral: ids opened while a search was active; dropped when the
//     search changes so that leaving a search restores the pre-search view
//
// Writes to one layer never touch the other. Every effective change bumps
// Version so callers can memoize on it.
type OpenState struct {
	persistent     map[string]struct{}
	ephemeral      map[string]struct{}
	forceAllOpened bool
	version        uint64
}

// NewOpenState creates a store with the given ids persistently open.
func NewOpenState(initiallyOpen ...string) *OpenState {
	s := &OpenState{
		persistent: make(map[string]struct{}, len(initiallyOpen)),
		ephemeral:  make(map[string]struct{}),
	}
	for _, id := range initiallyOpen {
		s.persistent[id] = struct{}{}
	}
	return s
}

// SetForceAllOpened switches the external "everything open" override.
func (s *OpenState) SetForceAllOpened(force bool) {
	if s.forceAllOpened == force {
		return
	}
	s.forceAllOpened = force
	s.version++
}

// ForceAllOpened reports whether the override is active.
func (s *OpenState) ForceAllOpened() bool {
	return s.forceAllOpened
}

// Open adds ids to the persistent layer. Returns the ids that were not
// already open, in argument order.
func (s *OpenState) Open(ids ...string) []string {
	var opened []string
	for _, id := range ids {
		if _, ok := s.persistent[id]; ok {
			continue
		}
		s.persistent[id] = struct{}{}
		opened = append(opened, id)
	}
	if len(opened) > 0 {
		s.version++
	}
	return opened
}

// Close removes ids from the persistent layer and returns the ids that were
// actually open. No-op while force-all-opened is active.
func (s *OpenState) Close(ids ...string) []string {
	if s.forceAllOpened {
		return nil
	}
	var closed []string
	for _, id := range ids {
		if _, ok := s.persistent[id]; !ok {
			continue
		}
		delete(s.persistent, id)
		closed = append(closed, id)
	}
	if len(closed) > 0 {
		s.version++
	}
	return closed
}

// IsOpen reports persistent membership only.
func (s *OpenState) IsOpen(id string) bool {
	_, ok := s.persistent[id]
	return ok
}

// AreOpen is the batch form of IsOpen; result[i] answers ids[i].
func (s *OpenState) AreOpen(ids []string) []bool {
	out := make([]bool, len(ids))
	for i, id := range ids {
		out[i] = s.IsOpen(id)
	}
	return out
}

// OpenDuringSearch adds id to the ephemeral layer.
func (s *OpenState) OpenDuringSearch(id string) bool {
	if _, ok := s.ephemeral[id]; ok {
		return false
	}
	s.ephemeral[id] = struct{}{}
	s.version++
	return true
}

// CloseDuringSearch removes id from the ephemeral layer. No-op while
// force-all-opened is active.
func (s *OpenState) CloseDuringSearch(id string) bool {
	if s.forceAllOpened {
		return false
	}
	if _, ok := s.ephemeral[id]; !ok {
		return false
	}
	delete(s.ephemeral, id)
	s.version++
	return true
}

// IsOpenDuringSearch reports ephemeral membership.
func (s *OpenState) IsOpenDuringSearch(id string) bool {
	_, ok := s.ephemeral[id]
	return ok
}

// ResetEphemeral drops every id opened during a search.
func (s *OpenState) ResetEphemeral() {
	if len(s.ephemeral) == 0 {
		return
	}
	s.ephemeral = make(map[string]struct{})
	s.version++
}

// Persistent returns the persistently open ids, sorted.
func (s *OpenState) Persistent() []string {
	ids := make([]string, 0, len(s.persistent))
	for id := range s.persistent {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Version changes whenever the store's observable state changes.
func (s *OpenState) Version() uint64 {
	return s.version
}
