// Package testutil provides fixture generators for various tree shapes.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/vanderheijden86/canopy/pkg/loader"
	"github.com/vanderheijden86/canopy/pkg/model"
)

// ShapeFixture is an abstract parent/child graph. Edges point from parent
// to child; a node with several incoming edges is an alias.
type ShapeFixture struct {
	Description string
	Nodes       []string
	Edges       [][2]int // [parent_idx, child_idx]
	Roots       []int    // nil = every node without a parent
	Properties  Properties
}

// Properties holds optional metadata about the fixture.
type Properties struct {
	HasCycles     bool
	HasAliases    bool
	ExpectedDepth int
}

// GeneratorConfig controls item generation.
type GeneratorConfig struct {
	Seed          int64  // Random seed for determinism (0 = fixed default)
	IDPrefix      string // Prefix for item IDs (default: "n")
	DescribeEvery int    // Give every Nth item a description (0 = none)
	TallEvery     int    // Make every Nth described item two lines tall (0 = none)
	IncludeData   bool   // Attach a small dataset to every item
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42, // Deterministic
		IDPrefix: "n",
	}
}

// Generator creates fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "n"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ============================================================================
// Shape Generators
// ============================================================================

// Chain creates a single path n0 > n1 > ... > n{size-1}.
func (g *Generator) Chain(size int) ShapeFixture {
	nodes := g.names(size)
	edges := make([][2]int, 0, size)
	for i := 1; i < size; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	return ShapeFixture{
		Description: fmt.Sprintf("Chain of %d nodes", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: size - 1},
	}
}

// Wide creates one folder holding n leaves. This is the shape that
// stresses virtualization.
func (g *Generator) Wide(n int) ShapeFixture {
	nodes := g.names(n + 1)
	edges := make([][2]int, n)
	for i := 1; i <= n; i++ {
		edges[i-1] = [2]int{0, i}
	}
	return ShapeFixture{
		Description: fmt.Sprintf("One folder with %d leaves", n),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: 1},
	}
}

// Diamond creates a top folder with width middle folders that all list
// the same bottom leaf.
func (g *Generator) Diamond(width int) ShapeFixture {
	if width < 1 {
		width = 1
	}
	size := width + 2
	nodes := g.names(size)
	edges := make([][2]int, 0, width*2)
	for i := 1; i <= width; i++ {
		edges = append(edges, [2]int{0, i}, [2]int{i, size - 1})
	}
	return ShapeFixture{
		Description: fmt.Sprintf("Diamond with %d middle folders sharing one leaf", width),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{HasAliases: width > 1, ExpectedDepth: 2},
	}
}

// Cycle creates a ring n0 > n1 > ... > n{size-1} > n0 rooted at n0.
func (g *Generator) Cycle(size int) ShapeFixture {
	if size < 1 {
		size = 1
	}
	nodes := g.names(size)
	edges := make([][2]int, size)
	for i := 0; i < size; i++ {
		edges[i] = [2]int{i, (i + 1) % size}
	}
	return ShapeFixture{
		Description: fmt.Sprintf("Cycle of %d nodes", size),
		Nodes:       nodes,
		Edges:       edges,
		Roots:       []int{0},
		Properties:  Properties{HasCycles: true, HasAliases: true},
	}
}

// Tree creates a balanced tree where every folder has breadth children.
func (g *Generator) Tree(depth, breadth int) ShapeFixture {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	count := 1
	level := 1
	for d := 0; d < depth; d++ {
		level *= breadth
		count += level
	}
	nodes := g.names(count)
	edges := make([][2]int, 0, count-1)

	// BFS-style numbering
	next := 1
	current := []int{0}
	for d := 0; d < depth; d++ {
		var nextLevel []int
		for _, parent := range current {
			for b := 0; b < breadth; b++ {
				edges = append(edges, [2]int{parent, next})
				nextLevel = append(nextLevel, next)
				next++
			}
		}
		current = nextLevel
	}

	return ShapeFixture{
		Description: fmt.Sprintf("Tree with depth=%d, breadth=%d (%d nodes)", depth, breadth, count),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: depth},
	}
}

// Forest creates components separate top-level chains of componentSize
// nodes each.
func (g *Generator) Forest(components, componentSize int) ShapeFixture {
	nodes := g.names(components * componentSize)
	var edges [][2]int
	for c := 0; c < components; c++ {
		base := c * componentSize
		for i := 1; i < componentSize; i++ {
			edges = append(edges, [2]int{base + i - 1, base + i})
		}
	}
	return ShapeFixture{
		Description: fmt.Sprintf("%d top-level chains of %d nodes", components, componentSize),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedDepth: componentSize - 1},
	}
}

// RandomTree attaches every node after the first to a random earlier node,
// so the result is always a single tree. aliasRate is the probability that
// a node also gets listed under a second earlier parent.
func (g *Generator) RandomTree(size int, aliasRate float64) ShapeFixture {
	nodes := g.names(size)
	var edges [][2]int
	aliases := false
	for i := 1; i < size; i++ {
		parent := g.rng.Intn(i)
		edges = append(edges, [2]int{parent, i})
		if i > 1 && g.rng.Float64() < aliasRate {
			if other := g.rng.Intn(i); other != parent {
				edges = append(edges, [2]int{other, i})
				aliases = true
			}
		}
	}
	return ShapeFixture{
		Description: fmt.Sprintf("Random tree with %d nodes, alias rate %.2f", size, aliasRate),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{HasAliases: aliases},
	}
}

func (g *Generator) names(n int) []string {
	if n < 0 {
		n = 0
	}
	nodes := make([]string, n)
	for i := range nodes {
		nodes[i] = g.cfg.IDPrefix + strconv.Itoa(i)
	}
	return nodes
}

// ============================================================================
// Conversion
// ============================================================================

var itemNames = []string{
	"Camera", "Light", "Orc", "Goblin", "Terrain", "Skybox",
	"Player", "Spawner", "Trigger", "Waypoint", "Audio", "Particles",
}

var descriptions = []string{
	"Placed by the level designer.",
	"Spawns at **night** only.\n\nSee the wave table for counts.",
	"Legacy node kept for old saves.",
}

// ToForest converts a fixture into a validated forest. Nodes with children
// become folders, the rest leaves; names cycle through a fixed word list.
func (g *Generator) ToForest(sf ShapeFixture) (*model.Forest, error) {
	children := make([][]string, len(sf.Nodes))
	hasParent := make([]bool, len(sf.Nodes))
	for _, e := range sf.Edges {
		children[e[0]] = append(children[e[0]], sf.Nodes[e[1]])
		hasParent[e[1]] = true
	}

	f := model.NewForest()
	for i, id := range sf.Nodes {
		item := &model.Item{
			ID:       id,
			Name:     fmt.Sprintf("%s %d", itemNames[i%len(itemNames)], i),
			Kind:     model.KindLeaf,
			ChildIDs: children[i],
		}
		if len(children[i]) > 0 {
			item.Kind = model.KindFolder
		}
		if g.cfg.DescribeEvery > 0 && i%g.cfg.DescribeEvery == 0 {
			item.Description = descriptions[i%len(descriptions)]
			if g.cfg.TallEvery > 0 && (i/g.cfg.DescribeEvery)%g.cfg.TallEvery == 0 {
				item.Height = 2
			}
		}
		if g.cfg.IncludeData {
			item.Dataset = map[string]string{
				"index":  strconv.Itoa(i),
				"weight": strconv.Itoa(g.rng.Intn(100)),
			}
		}
		if err := f.Add(item); err != nil {
			return nil, err
		}
	}

	roots := sf.Roots
	if roots == nil {
		for i := range sf.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}
	for _, r := range roots {
		f.AddRoot(sf.Nodes[r])
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ToDocument converts a forest back into its file form. Each item is
// defined at its first position in depth-first order; later occurrences
// and cycles become refs.
func ToDocument(f *model.Forest) loader.Document {
	doc := loader.Document{Roots: f.RootIDs()}
	defined := make(map[string]bool, f.Len())

	var node func(id string) loader.Node
	node = func(id string) loader.Node {
		if defined[id] {
			return loader.Node{Ref: id}
		}
		defined[id] = true
		it, _ := f.Get(id)
		n := loader.Node{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Thumbnail:   it.Thumbnail,
			Kind:        it.Kind.String(),
			Height:      it.Height,
			Dataset:     it.Dataset,
		}
		if _, ok := it.Children(); ok {
			kids := make([]loader.Node, 0, len(it.ChildIDs))
			for _, child := range it.ChildIDs {
				kids = append(kids, node(child))
			}
			n.Children = &kids
		}
		return n
	}

	for _, id := range f.RootIDs() {
		if !defined[id] {
			doc.Items = append(doc.Items, node(id))
		}
	}
	// Items unreachable from the roots still need a definition.
	for _, id := range f.IDs() {
		if !defined[id] {
			doc.Items = append(doc.Items, node(id))
		}
	}
	return doc
}

// ============================================================================
// Convenience functions
// ============================================================================

// QuickTree returns a balanced forest using the default generator.
func QuickTree(depth, breadth int) *model.Forest {
	g := NewDefault()
	return must(g.ToForest(g.Tree(depth, breadth)))
}

// QuickWide returns one folder with n leaves using the default generator.
func QuickWide(n int) *model.Forest {
	g := NewDefault()
	return must(g.ToForest(g.Wide(n)))
}

// QuickCycle returns a ring of size nodes using the default generator.
func QuickCycle(size int) *model.Forest {
	g := NewDefault()
	return must(g.ToForest(g.Cycle(size)))
}

// QuickDiamond returns a diamond with width middle folders.
func QuickDiamond(width int) *model.Forest {
	g := NewDefault()
	return must(g.ToForest(g.Diamond(width)))
}

func must(f *model.Forest, err error) *model.Forest {
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return f
}
