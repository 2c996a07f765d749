package fuzzyrank

import (
	"fmt"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
)

func forestOf(t *testing.T, names ...string) *model.Forest {
	t.Helper()
	f := model.NewForest()
	root := &model.Item{ID: "root", Name: "Root Scene", Kind: model.KindRoot}
	for i, name := range names {
		id := fmt.Sprintf("n%d", i)
		root.ChildIDs = append(root.ChildIDs, id)
		if err := f.Add(&model.Item{ID: id, Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	f.Add(root)
	f.AddRoot("root")
	return f
}

func TestRankOrdersByScore(t *testing.T) {
	f := forestOf(t, "Orc Shaman", "Goblin", "Orc", "Ogre Chief")
	r := Rank(f, "orc", 0)
	if len(r.Results) < 2 {
		t.Fatalf("expected at least 2 matches, got %+v", r.Results)
	}
	if r.Results[0].Item.Name != "Orc" {
		t.Errorf("exact match should rank first, got %q", r.Results[0].Item.Name)
	}
	for _, res := range r.Results {
		if res.Item.Kind == model.KindRoot {
			t.Error("root items are not candidates")
		}
	}
	if got := r.Highlights(r.Results[0].Item.ID); len(got) != 3 {
		t.Errorf("expected 3 matched offsets, got %v", got)
	}
}

func TestRankLimitAddsMoreRow(t *testing.T) {
	f := forestOf(t, "alpha", "alpine", "altitude", "algae")
	r := Rank(f, "al", 2)
	if len(r.Results) != 2 || r.Remaining != 2 {
		t.Fatalf("expected 2 results and 2 remaining, got %d/%d", len(r.Results), r.Remaining)
	}
	roots := r.Roots()
	last := roots[len(roots)-1]
	if last.Kind != model.KindMoreResults || last.ID != MoreResultsID || last.Name != "2 more results" {
		t.Errorf("unexpected more row %+v", last)
	}

	// The more row survives an engine search and is never focusable
	// through selection or expansion.
	flat, err := treeview.Flatten(model.Accessors(), roots, treeview.NewOpenState(), "zzz", nil, treeview.FlattenOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if flat.Len() != 1 || flat.Rows[0].ID != MoreResultsID || flat.Rows[0].CanHaveChildren {
		t.Errorf("expected only the more row, got %d rows", flat.Len())
	}
}

func TestRankEmptyPattern(t *testing.T) {
	if r := Rank(forestOf(t, "a"), "", 10); len(r.Results) != 0 || len(r.Roots()) != 0 {
		t.Errorf("empty pattern ranks nothing, got %+v", r)
	}
	if r := Rank(nil, "a", 10); len(r.Results) != 0 {
		t.Errorf("nil forest ranks nothing, got %+v", r)
	}
	if MoreResultsItem(1).Name != "1 more result" {
		t.Error("singular more row")
	}
}
