package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
)

// AssertRowIDs verifies the flattened rows list exactly the expected ids.
func AssertRowIDs(t *testing.T, rows []treeview.Row[*model.Item], want ...string) {
	t.Helper()
	got := RowIDs(rows)
	if len(got) != len(want) {
		t.Errorf("expected rows %v, got %v", want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected rows %v, got %v (first difference at %d)", want, got, i)
			return
		}
	}
}

// AssertItemCount verifies the expected number of items.
func AssertItemCount(t *testing.T, f *model.Forest, expected int) {
	t.Helper()
	if f.Len() != expected {
		t.Errorf("expected %d items, got %d", expected, f.Len())
	}
}

// AssertChild verifies that childID is listed under parentID.
func AssertChild(t *testing.T, f *model.Forest, parentID, childID string) {
	t.Helper()
	parent, ok := f.Get(parentID)
	if !ok {
		t.Errorf("item %s not found", parentID)
		return
	}
	for _, id := range parent.ChildIDs {
		if id == childID {
			return
		}
	}
	t.Errorf("expected %s under %s, children are %v", childID, parentID, parent.ChildIDs)
}

// RowIDs returns the ids of rows in order.
func RowIDs(rows []treeview.Row[*model.Item]) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// WriteTreeFile writes f as a YAML tree file named name under dir and
// returns its path.
func WriteTreeFile(t *testing.T, dir, name string, f *model.Forest) string {
	t.Helper()

	data, err := yaml.Marshal(ToDocument(f))
	if err != nil {
		t.Fatalf("failed to marshal forest: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write tree file: %v", err)
	}
	return path
}
