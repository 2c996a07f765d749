// Package datasource detects and describes the files canopy can read trees
// from (YAML and JSON documents, SQLite databases) and reads the SQLite
// kind directly.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrUnknownFormat indicates a file whose extension maps to no source type.
var ErrUnknownFormat = errors.New("unknown tree file format")

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database with a nodes table
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeYAML is a YAML tree document
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeJSON is a JSON tree document
	SourceTypeJSON SourceType = "json"
)

var extensions = map[string]SourceType{
	".yaml":   SourceTypeYAML,
	".yml":    SourceTypeYAML,
	".json":   SourceTypeJSON,
	".db":     SourceTypeSQLite,
	".sqlite": SourceTypeSQLite,
}

// DataSource describes one tree file
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)",
		s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// TypeOf maps a file name onto a source type by extension.
func TypeOf(path string) (SourceType, error) {
	t, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	return t, nil
}

// Detect stats path and describes it.
func Detect(path string) (DataSource, error) {
	t, err := TypeOf(path)
	if err != nil {
		return DataSource{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", path)
	}
	return DataSource{Type: t, Path: abs, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// DiscoverSources expands the given paths into tree sources. Files are
// taken as given and must have a known extension; directories contribute
// every tree file directly inside them, sorted by name. The result keeps
// argument order.
func DiscoverSources(paths []string, opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	var sources []DataSource
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", p, err)
		}
		if !info.IsDir() {
			src, err := Detect(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}

		found, err := discoverDir(p, opts)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}
	return sources, nil
}

func discoverDir(dir string, opts DiscoveryOptions) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := TypeOf(e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]DataSource, 0, len(names))
	for _, name := range names {
		src, err := Detect(filepath.Join(dir, name))
		if err != nil {
			if opts.Verbose {
				opts.Logger(fmt.Sprintf("Skipping %s: %v", name, err))
			}
			continue
		}
		sources = append(sources, src)
	}
	return sources, nil
}
