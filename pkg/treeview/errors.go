package treeview

import (
	"errors"
	"fmt"
	"strings"
)

// Tree errors
var (
	// ErrCycle is matched by every MalformedTreeError via errors.Is.
	ErrCycle = errors.New("tree contains a cycle")

	// ErrNoAccessors indicates that the ID, Name or Children accessor is missing.
	ErrNoAccessors = errors.New("tree accessors are incomplete")
)

// MalformedTreeError is returned by Flatten when cycle detection is enabled
// and a node is reached again through its own descendants.
type MalformedTreeError struct {
	ID   string   // Identifier that was revisited
	Path []string // Identifiers from the top-level node down to the revisit
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree: node %q is its own ancestor (%s)",
		e.ID, strings.Join(e.Path, " > "))
}

// Is lets errors.Is(err, ErrCycle) match.
func (e *MalformedTreeError) Is(target error) bool {
	return target == ErrCycle
}
