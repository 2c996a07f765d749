// Package loader reads tree documents (YAML, JSON) and SQLite tree tables
// into a model.Forest. Several files load concurrently and merge into one
// forest in argument order.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/internal/datasource"
	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/metrics"
	"github.com/vanderheijden86/canopy/pkg/model"
)

// Loader errors
var (
	// ErrUnknownFormat indicates a file extension no reader handles.
	ErrUnknownFormat = datasource.ErrUnknownFormat

	// ErrDuplicateID indicates an id defined twice across the loaded files.
	ErrDuplicateID = model.ErrDuplicateID

	// ErrUnknownRef indicates a ref or root naming an id no file defines.
	ErrUnknownRef = model.ErrUnknownRef
)

// ParseOptions configures parsing.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., unknown kinds).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// Source is recorded on every parsed item.
	Source string
}

func (o ParseOptions) warn(msg string) {
	if o.WarningHandler != nil {
		o.WarningHandler(msg)
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// ParseYAML decodes a YAML document into a forest. References are not
// validated so that they may point into other files.
func ParseYAML(r io.Reader, opts ParseOptions) (*model.Forest, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return Build(doc, opts)
}

// ParseJSON decodes a JSON document into a forest.
func ParseJSON(r io.Reader, opts ParseOptions) (*model.Forest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	data = stripBOM(data)
	var doc Document
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
	}
	return Build(doc, opts)
}

// Build turns a decoded document into a forest.
func Build(doc Document, opts ParseOptions) (*model.Forest, error) {
	f := model.NewForest()
	b := builder{forest: f, opts: opts}

	var top []string
	for i := range doc.Items {
		id, err := b.node(&doc.Items[i], fmt.Sprintf("items[%d]", i))
		if err != nil {
			return nil, err
		}
		top = append(top, id)
	}
	roots := doc.Roots
	if len(roots) == 0 {
		roots = top
	}
	for _, id := range roots {
		f.AddRoot(id)
	}
	return f, nil
}

type builder struct {
	forest *model.Forest
	opts   ParseOptions
}

// node adds n and its subtree, returning the id to link under the parent.
func (b *builder) node(n *Node, where string) (string, error) {
	if n.Ref != "" {
		if n.ID != "" || n.Children != nil {
			return "", fmt.Errorf("%s: ref %q cannot also define an item", where, n.Ref)
		}
		return n.Ref, nil
	}
	if n.ID == "" {
		return "", fmt.Errorf("%s: missing id", where)
	}

	item := &model.Item{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Thumbnail:   n.Thumbnail,
		Height:      n.Height,
		Dataset:     n.Dataset,
		Source:      b.opts.Source,
	}
	if item.Name == "" {
		item.Name = n.ID
	}

	switch kind, ok := model.ParseKind(n.Kind); {
	case ok:
		item.Kind = kind
	case n.Kind != "":
		b.opts.warn(fmt.Sprintf("%s: unknown kind %q for %s, treating as leaf", where, n.Kind, n.ID))
		item.Kind = model.KindLeaf
	case n.Children != nil:
		item.Kind = model.KindFolder
	default:
		item.Kind = model.KindLeaf
	}

	if n.Children != nil {
		for i := range *n.Children {
			childID, err := b.node(&(*n.Children)[i], fmt.Sprintf("%s.children[%d]", where, i))
			if err != nil {
				return "", err
			}
			item.ChildIDs = append(item.ChildIDs, childID)
		}
	}
	if err := b.forest.Add(item); err != nil {
		return "", fmt.Errorf("%s: %w", where, err)
	}
	return n.ID, nil
}

// LoadSource reads one source into a forest.
func LoadSource(ctx context.Context, src datasource.DataSource, opts ParseOptions) (*model.Forest, error) {
	if src.Type == datasource.SourceTypeSQLite {
		f, err := datasource.LoadSQLite(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		return f, nil
	}

	file, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file: %w", err)
	}
	defer file.Close()

	opts.Source = src.Path
	var f *model.Forest
	switch src.Type {
	case datasource.SourceTypeYAML:
		f, err = ParseYAML(file, opts)
	case datasource.SourceTypeJSON:
		f, err = ParseJSON(file, opts)
	default:
		return nil, fmt.Errorf("%s: %w", src.Path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	return f, nil
}

// LoadFile detects the type of path and reads it.
func LoadFile(ctx context.Context, path string, opts ParseOptions) (*model.Forest, error) {
	src, err := datasource.Detect(path)
	if err != nil {
		return nil, err
	}
	return LoadSource(ctx, src, opts)
}

// LoadFiles reads every path concurrently and merges the results in
// argument order. Directories contribute the tree files inside them.
// References are validated across all files once merged.
func LoadFiles(ctx context.Context, paths []string, opts ParseOptions) (*model.Forest, error) {
	defer metrics.Timer(metrics.Load)()
	start := time.Now()

	sources, err := datasource.DiscoverSources(paths, datasource.DiscoveryOptions{
		Verbose: debug.Enabled(),
		Logger:  func(msg string) { debug.Log("loader: %s", msg) },
	})
	if err != nil {
		return nil, err
	}

	forests := make([]*model.Forest, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			f, err := LoadSource(gctx, src, opts)
			if err != nil {
				return err
			}
			forests[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := model.NewForest()
	for i, f := range forests {
		if err := merged.Merge(f); err != nil {
			return nil, fmt.Errorf("%s: %w", sources[i].Path, err)
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	debug.LogTiming(fmt.Sprintf("loader.LoadFiles (%d files, %d items)", len(sources), merged.Len()), time.Since(start))
	return merged, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
