package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/treeview"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Tree.Overscan != treeview.DefaultOverscan {
		t.Errorf("expected overscan %d, got %d", treeview.DefaultOverscan, cfg.Tree.Overscan)
	}
	if !cfg.Tree.DetectCycles {
		t.Error("expected cycle detection on by default")
	}
	if cfg.ResetPolicy() != treeview.ResetOnEveryChange {
		t.Errorf("expected every_change reset, got %v", cfg.ResetPolicy())
	}
	if cfg.CollapsePolicy() != treeview.CollapseWithoutVisibleChildren {
		t.Errorf("expected without_visible_children, got %v", cfg.CollapsePolicy())
	}
	if !cfg.Watch.Enabled || cfg.DebounceDuration().Milliseconds() != 200 {
		t.Errorf("unexpected watch defaults %+v", cfg.Watch)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.GlamourStyle != "dark" {
		t.Errorf("expected default config, got style %q", cfg.UI.GlamourStyle)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
sources:
  - name: scene
    paths: [~/trees/scene.yaml, /abs/extra.json]

tree:
  overscan: 5
  multi_select: true
  search_reset: on_clear
  search_collapse: unless_opened
  initially_open: [scene-objects]

ui:
  markdown: false

watch:
  debounce_ms: 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	src := cfg.FindSource("SCENE")
	if src == nil {
		t.Fatal("expected to find source case-insensitively")
	}
	if src.Paths[0] != filepath.Join(home, "trees/scene.yaml") || src.Paths[1] != "/abs/extra.json" {
		t.Errorf("unexpected paths %v", src.Paths)
	}

	if cfg.ResetPolicy() != treeview.ResetOnClear || cfg.CollapsePolicy() != treeview.CollapseUnlessOpenedDuringSearch {
		t.Errorf("policies not parsed: %q %q", cfg.Tree.SearchReset, cfg.Tree.SearchCollapse)
	}
	if cfg.UI.Markdown {
		t.Error("expected markdown disabled")
	}
	if !cfg.UI.ShowDetails {
		t.Error("unset keys keep their defaults")
	}
	if !cfg.Tree.DetectCycles {
		t.Error("detect_cycles default should survive a partial tree section")
	}

	opts := cfg.TreeOptions()
	if !opts.MultiSelect || opts.Overscan != 5 || len(opts.InitiallyOpen) != 1 || opts.ItemHeight == nil {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestTreeOptions_Overscan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tree.Overscan = 0
	if got := cfg.TreeOptions().Overscan; got >= 0 {
		t.Errorf("explicit 0 overscan must disable overscan, got %d", got)
	}
}

func TestPolicies_UnknownFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tree.SearchReset = "sometimes"
	cfg.Tree.SearchCollapse = "bogus"
	if cfg.ResetPolicy() != treeview.ResetOnEveryChange || cfg.CollapsePolicy() != treeview.CollapseWithoutVisibleChildren {
		t.Error("unknown policy strings should select defaults")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Sources = []Source{{Name: "demo", Paths: []string{"/a.yaml"}}}
	cfg.Tree.ForceAllOpened = true
	cfg.UI.GlamourStyle = "light"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if !loaded.Tree.ForceAllOpened || loaded.UI.GlamourStyle != "light" || len(loaded.Sources) != 1 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := Config{Sources: []Source{{Name: "scene", Paths: []string{"/s/a.yaml", "/s/b.yaml"}}}}
	got := cfg.ResolvePaths([]string{"scene", "/other.json"})
	want := []string{"/s/a.yaml", "/s/b.yaml", "/other.json"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	if got := ConfigPath(); got != "/xdg/config/canopy/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
	a := OpenStatePath([]string{"/trees/a.yaml"})
	b := OpenStatePath([]string{"/trees/b.yaml"})
	if !strings.HasPrefix(a, "/xdg/state/canopy/open/") || !strings.HasSuffix(a, ".json") {
		t.Errorf("unexpected open state path %q", a)
	}
	if a == b {
		t.Error("different file sets must not share open state")
	}
	if a != OpenStatePath([]string{"/trees/a.yaml"}) {
		t.Error("open state path must be stable")
	}
}
