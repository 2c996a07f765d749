package model

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/treeview"
)

// buildScene returns scene(root) -> [enemies(folder) -> [orc, goblin], light].
func buildScene(t *testing.T) *Forest {
	t.Helper()
	f := NewForest()
	items := []*Item{
		{ID: "scene", Name: "Scene", Kind: KindRoot, ChildIDs: []string{"enemies", "light"}},
		{ID: "enemies", Name: "Enemies", Kind: KindFolder, ChildIDs: []string{"orc", "goblin"}},
		{ID: "orc", Name: "Orc", Kind: KindLeaf},
		{ID: "goblin", Name: "Goblin", Kind: KindLeaf},
		{ID: "light", Name: "Light", Kind: KindLeaf},
	}
	for _, it := range items {
		if err := f.Add(it); err != nil {
			t.Fatalf("Add(%s): %v", it.ID, err)
		}
	}
	f.AddRoot("scene")
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return f
}

func TestForestChildrenAndParents(t *testing.T) {
	f := buildScene(t)
	enemies, _ := f.Get("enemies")
	children, ok := enemies.Children()
	if !ok || len(children) != 2 || children[0].ID != "orc" || children[1].ID != "goblin" {
		t.Fatalf("unexpected children %v ok=%v", children, ok)
	}
	orc, _ := f.Get("orc")
	if _, ok := orc.Children(); ok {
		t.Error("leaf items cannot hold children")
	}
	if got := f.Parents("orc"); len(got) != 1 || got[0] != "enemies" {
		t.Errorf("expected parent enemies, got %v", got)
	}
}

func TestForestEmptyFolderCanHoldChildren(t *testing.T) {
	f := NewForest()
	f.Add(&Item{ID: "empty", Name: "Empty", Kind: KindFolder})
	it, _ := f.Get("empty")
	children, ok := it.Children()
	if !ok || len(children) != 0 {
		t.Errorf("empty folder: children=%v ok=%v", children, ok)
	}
}

func TestForestErrors(t *testing.T) {
	f := NewForest()
	f.Add(&Item{ID: "a", ChildIDs: []string{"ghost"}})
	if err := f.Add(&Item{ID: "a"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	f.AddRoot("nowhere")
	err := f.Validate()
	if !errors.Is(err, ErrUnknownRef) {
		t.Fatalf("expected ErrUnknownRef, got %v", err)
	}
	if err := f.Link("missing", "a"); !errors.Is(err, ErrUnknownRef) {
		t.Errorf("Link under unknown parent: got %v", err)
	}
}

func TestForestAliasesFlattenTwice(t *testing.T) {
	f := NewForest()
	f.Add(&Item{ID: "g1", Name: "G1", Kind: KindGroup, ChildIDs: []string{"shared"}})
	f.Add(&Item{ID: "g2", Name: "G2", Kind: KindGroup, ChildIDs: []string{"shared"}})
	f.Add(&Item{ID: "shared", Name: "Shared"})
	f.AddRoot("g1")
	f.AddRoot("g2")

	open := treeview.NewOpenState("g1", "g2")
	flat, err := treeview.Flatten(Accessors(), f.Roots(), open, "", nil, treeview.FlattenOptions{DetectCycles: true})
	if err != nil {
		t.Fatal(err)
	}
	if flat.IndexOf("shared") != 1 || flat.LastIndexOf("shared") != 3 {
		t.Errorf("expected shared twice, got %d rows", flat.Len())
	}
}

func TestForestMerge(t *testing.T) {
	a := buildScene(t)
	b := NewForest()
	b.Add(&Item{ID: "extra", Name: "Extra"})
	b.AddRoot("extra")
	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	if got := a.RootIDs(); len(got) != 2 || got[1] != "extra" {
		t.Errorf("expected merged roots, got %v", got)
	}
	if err := a.Merge(buildScene(t)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("merging clashing ids: got %v", err)
	}
}

func TestAccessorsDispatchOnKind(t *testing.T) {
	acc := Accessors()
	more := &Item{ID: "more", Name: "12 more results", Kind: KindMoreResults}
	ph := &Item{ID: "ph", Name: "Loading", Kind: KindPlaceholder}
	root := &Item{ID: "r", Kind: KindRoot}

	if acc.Searchable(more) || acc.Searchable(ph) || !acc.Searchable(root) {
		t.Error("structural rows are not searchable")
	}
	if !acc.IsPlaceholder(ph) || acc.IsPlaceholder(more) {
		t.Error("IsPlaceholder mismatch")
	}
	if !acc.IsRoot(root) {
		t.Error("IsRoot mismatch")
	}
}

func TestNavigationSkipsRoots(t *testing.T) {
	f := buildScene(t)
	nav := f.Navigation()
	enemies, _ := f.Get("enemies")
	orc, _ := f.Get("orc")

	if got, ok := nav.Inside(enemies); !ok || got.ID != "orc" {
		t.Errorf("Inside(enemies) = %v, %v", got, ok)
	}
	if got, ok := nav.Outside(orc); !ok || got.ID != "enemies" {
		t.Errorf("Outside(orc) = %v, %v", got, ok)
	}
	if _, ok := nav.Outside(enemies); ok {
		t.Error("the scene root is not focusable")
	}
	if _, ok := nav.Inside(orc); ok {
		t.Error("leaves have nothing inside")
	}
}

func TestKindText(t *testing.T) {
	for k, name := range kindNames {
		got, ok := ParseKind(name)
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, ok)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Group")); err != nil || k != KindGroup {
		t.Errorf("UnmarshalText(Group) = %v, %v", k, err)
	}
	if _, ok := ParseKind("bogus"); ok {
		t.Error("unknown kinds must not parse")
	}
}
