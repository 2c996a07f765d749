package treeview

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/canopy/pkg/debug"
)

// OpenStateVersion is the schema version of the persisted open-state file.
const OpenStateVersion = 1

// PersistedOpenState is the on-disk form of the persistent open layer.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "open": ["scene-objects", "folder-enemies"]
//	}
//
// Only the persistent layer is stored. Ids opened during a search and the
// selection are never written.
type PersistedOpenState struct {
	Version int      `json:"version"`
	Open    []string `json:"open"`
}

// SaveOpenState writes ids to path, creating the directory if needed.
func SaveOpenState(path string, ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	data, err := json.MarshalIndent(PersistedOpenState{Version: OpenStateVersion, Open: sorted}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling open state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing open state: %w", err)
	}
	return nil
}

// LoadOpenState reads the ids saved at path. A missing, corrupt or newer
// file yields no ids and no error.
func LoadOpenState(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var state PersistedOpenState
	if err := json.Unmarshal(data, &state); err != nil {
		debug.Log("treeview: ignoring invalid open state %s: %v", path, err)
		return nil
	}
	if state.Version > OpenStateVersion {
		debug.Log("treeview: ignoring open state %s with version %d", path, state.Version)
		return nil
	}
	return state.Open
}
