// Package fuzzyrank ranks forest items against a fuzzy pattern. The tree
// engine itself only does case-insensitive containment; this collaborator
// runs first and hands the engine a short, ranked list of top-level items
// to show instead of the whole forest.
package fuzzyrank

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// DefaultLimit is the number of results shown before the "more results" row.
const DefaultLimit = 50

// MoreResultsID is the id of the synthetic "more results" row.
const MoreResultsID = "fuzzyrank:more"

// Result is one ranked match.
type Result struct {
	Item           *model.Item
	Score          int
	MatchedIndexes []int // byte offsets into Item.Name
}

// Ranking is the outcome of Rank.
type Ranking struct {
	Pattern string
	Results []Result
	// Remaining is the number of matches cut off by the limit.
	Remaining int
}

type candidates []*model.Item

func (c candidates) String(i int) string { return c[i].Name }
func (c candidates) Len() int            { return len(c) }

// Rank matches pattern against the names of every content item in f and
// keeps the best limit results (limit <= 0 selects DefaultLimit). Equal
// scores keep forest order.
func Rank(f *model.Forest, pattern string, limit int) Ranking {
	if limit <= 0 {
		limit = DefaultLimit
	}
	r := Ranking{Pattern: pattern}
	if pattern == "" || f == nil {
		return r
	}

	var items candidates
	for _, id := range f.IDs() {
		it, _ := f.Get(id)
		if it.Kind == model.KindRoot || !it.Kind.Searchable() {
			continue
		}
		items = append(items, it)
	}

	matches := fuzzy.FindFrom(pattern, items)
	for i, m := range matches {
		if i == limit {
			r.Remaining = len(matches) - limit
			break
		}
		r.Results = append(r.Results, Result{
			Item:           items[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return r
}

// Roots returns the ranked items followed, when matches were cut off, by a
// "more results" row. The items are the forest's own, so they expand into
// their children as usual.
func (r Ranking) Roots() []*model.Item {
	roots := make([]*model.Item, 0, len(r.Results)+1)
	for _, res := range r.Results {
		roots = append(roots, res.Item)
	}
	if r.Remaining > 0 {
		roots = append(roots, MoreResultsItem(r.Remaining))
	}
	return roots
}

// MoreResultsItem builds the row standing in for n hidden matches.
func MoreResultsItem(n int) *model.Item {
	name := fmt.Sprintf("%d more results", n)
	if n == 1 {
		name = "1 more result"
	}
	return &model.Item{ID: MoreResultsID, Name: name, Kind: model.KindMoreResults}
}

// Highlights returns the matched byte offsets for id, if it was ranked.
func (r Ranking) Highlights(id string) []int {
	for _, res := range r.Results {
		if res.Item.ID == id {
			return res.MatchedIndexes
		}
	}
	return nil
}
