// Package config handles loading and saving canopy configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/canopy/config.yaml
//   - State:   ~/.local/state/canopy/ (open-state files per tree)
package config

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
)

// Source is a named set of tree files, so "canopy scene" can stand for
// the files listed under the name "scene".
type Source struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// TreeConfig holds tree engine settings.
type TreeConfig struct {
	// Overscan is the number of rows realized beyond the viewport on each
	// side; zero or negative disables overscan.
	Overscan       int      `yaml:"overscan"`
	MultiSelect    bool     `yaml:"multi_select"`
	ForceAllOpened bool     `yaml:"force_all_opened"`
	SearchReset    string   `yaml:"search_reset"`    // every_change, on_clear
	SearchCollapse string   `yaml:"search_collapse"` // without_visible_children, unless_opened
	DetectCycles   bool     `yaml:"detect_cycles"`
	InitiallyOpen  []string `yaml:"initially_open,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowDetails  bool   `yaml:"show_details"`
	Markdown     bool   `yaml:"markdown"`                // Render descriptions with glamour
	GlamourStyle string `yaml:"glamour_style,omitempty"` // dark, light, notty, ...
	FuzzyLimit   int    `yaml:"fuzzy_limit,omitempty"`
}

// WatchConfig controls live reload.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
	ForcePoll  bool `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for canopy.
type Config struct {
	Sources []Source    `yaml:"sources,omitempty"`
	Tree    TreeConfig  `yaml:"tree"`
	UI      UIConfig    `yaml:"ui"`
	Watch   WatchConfig `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tree: TreeConfig{
			Overscan:       treeview.DefaultOverscan,
			SearchReset:    treeview.ResetOnEveryChange.String(),
			SearchCollapse: treeview.CollapseWithoutVisibleChildren.String(),
			DetectCycles:   true,
		},
		UI: UIConfig{
			ShowDetails:  true,
			Markdown:     true,
			GlamourStyle: "dark",
			FuzzyLimit:   50,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for canopy.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "canopy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "canopy")
}

// StateDir returns the XDG state directory for canopy.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "canopy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "canopy")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// OpenStatePath returns where the open state for a set of tree files is
// kept. The name is derived from the absolute paths so that each file set
// remembers its own expanded folders.
func OpenStatePath(paths []string) string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	h := sha1.New()
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return filepath.Join(dir, "open", hex.EncodeToString(h.Sum(nil))[:16]+".json")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in source paths
	for i := range cfg.Sources {
		for j := range cfg.Sources[i].Paths {
			cfg.Sources[i].Paths[j] = expandHome(cfg.Sources[i].Paths[j])
		}
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindSource returns the source with the given name, or nil.
func (c Config) FindSource(name string) *Source {
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i]
		}
	}
	return nil
}

// ResolvePaths replaces every argument naming a configured source with
// that source's paths. Other arguments pass through unchanged.
func (c Config) ResolvePaths(args []string) []string {
	var out []string
	for _, arg := range args {
		if src := c.FindSource(arg); src != nil {
			if _, err := os.Stat(arg); err != nil {
				out = append(out, src.Paths...)
				continue
			}
		}
		out = append(out, expandHome(arg))
	}
	return out
}

// ResetPolicy parses Tree.SearchReset; unknown values select the default.
func (c Config) ResetPolicy() treeview.EphemeralResetPolicy {
	if c.Tree.SearchReset == treeview.ResetOnClear.String() {
		return treeview.ResetOnClear
	}
	return treeview.ResetOnEveryChange
}

// CollapsePolicy parses Tree.SearchCollapse; unknown values select the
// default.
func (c Config) CollapsePolicy() treeview.SearchCollapsePolicy {
	if c.Tree.SearchCollapse == treeview.CollapseUnlessOpenedDuringSearch.String() {
		return treeview.CollapseUnlessOpenedDuringSearch
	}
	return treeview.CollapseWithoutVisibleChildren
}

// DebounceDuration returns Watch.DebounceMS as a duration.
func (c Config) DebounceDuration() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// TreeOptions maps the tree settings onto engine options for canopy's
// items. Callbacks, clock and sizes are left for the caller.
func (c Config) TreeOptions() treeview.Options[*model.Item] {
	overscan := c.Tree.Overscan
	if overscan == 0 {
		// Options reads 0 as "default"; an explicit 0 here means none.
		overscan = -1
	}
	return treeview.Options[*model.Item]{
		Accessors:      model.Accessors(),
		MultiSelect:    c.Tree.MultiSelect,
		ForceAllOpened: c.Tree.ForceAllOpened,
		InitiallyOpen:  append([]string(nil), c.Tree.InitiallyOpen...),
		ResetPolicy:    c.ResetPolicy(),
		CollapsePolicy: c.CollapsePolicy(),
		DetectCycles:   c.Tree.DetectCycles,
		Overscan:       overscan,
		ItemHeight:     (*model.Item).RowHeight,
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
