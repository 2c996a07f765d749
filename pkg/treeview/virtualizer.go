package treeview

import "sort"

// DefaultOverscan is the number of extra rows realized on each side of the
// viewport. It is kept high so that off-screen rows near the viewport stay
// mounted for external highlighting (guided tours and the like).
const DefaultOverscan = 20

// Placement is the scroll policy used to bring a row into view.
type Placement int

const (
	// PlacementSmart scrolls only as far as needed to make the row visible.
	PlacementSmart Placement = iota
	// PlacementStart aligns the row with the top of the viewport.
	PlacementStart
)

func (p Placement) String() string {
	if p == PlacementStart {
		return "start"
	}
	return "smart"
}

// ParsePlacement maps "start" to PlacementStart and anything else to
// PlacementSmart.
func ParsePlacement(s string) Placement {
	if s == "start" {
		return PlacementStart
	}
	return PlacementSmart
}

// ListScroller is the windowed-list primitive the TreeView drives when it
// wants a row scrolled into view. Virtualizer implements it.
type ListScroller interface {
	ScrollToItem(index int, placement Placement)
}

// VisibleWindow is the index range intersecting the viewport, [Start, End),
// plus the overscan-expanded range [RenderStart, RenderEnd) that should be
// realized. Both are clamped to [0, itemCount).
type VisibleWindow struct {
	Start, End             int
	RenderStart, RenderEnd int
}

// Len returns the number of rows to realize.
func (w VisibleWindow) Len() int { return w.RenderEnd - w.RenderStart }

// Contains reports whether index i falls in the realized range.
func (w VisibleWindow) Contains(i int) bool {
	return i >= w.RenderStart && i < w.RenderEnd
}

// InViewport reports whether index i intersects the viewport.
func (w VisibleWindow) InViewport(i int) bool {
	return i >= w.Start && i < w.End
}

// Virtualizer maps a scroll offset onto the rows that must be realized.
// Heights and offsets are in abstract units (terminal lines, pixels).
type Virtualizer struct {
	count      int
	rowHeight  int
	itemHeight func(index int) int
	tops       []int // prefix sums; tops[i] is the top of row i, tops[count] the total
	viewport   int
	overscan   int
	offset     int
}

// NewVirtualizer creates a fixed row height virtualizer. A negative
// overscan selects DefaultOverscan.
func NewVirtualizer(rowHeight, viewportHeight, overscan int) *Virtualizer {
	if rowHeight < 1 {
		rowHeight = 1
	}
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	return &Virtualizer{
		rowHeight: rowHeight,
		viewport:  viewportHeight,
		overscan:  overscan,
	}
}

// SetItemCount updates the number of rows and re-clamps the scroll offset.
func (v *Virtualizer) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	v.count = n
	v.rebuild()
	v.offset = v.clamp(v.offset)
}

// SetItemHeight switches to per-row heights. nil returns to the fixed height.
func (v *Virtualizer) SetItemHeight(fn func(index int) int) {
	v.itemHeight = fn
	v.rebuild()
	v.offset = v.clamp(v.offset)
}

// SetViewportHeight updates the container height.
func (v *Virtualizer) SetViewportHeight(h int) {
	if h < 0 {
		h = 0
	}
	v.viewport = h
	v.offset = v.clamp(v.offset)
}

// ViewportHeight returns the container height.
func (v *Virtualizer) ViewportHeight() int { return v.viewport }

// Overscan returns the overscan margin in rows.
func (v *Virtualizer) Overscan() int { return v.overscan }

// ItemCount returns the number of rows.
func (v *Virtualizer) ItemCount() int { return v.count }

func (v *Virtualizer) rebuild() {
	if v.itemHeight == nil {
		v.tops = nil
		return
	}
	v.tops = make([]int, v.count+1)
	for i := 0; i < v.count; i++ {
		h := v.itemHeight(i)
		if h < 1 {
			h = 1
		}
		v.tops[i+1] = v.tops[i] + h
	}
}

// ItemTop returns the offset of row i's top edge.
func (v *Virtualizer) ItemTop(i int) int {
	if v.tops != nil {
		return v.tops[i]
	}
	return i * v.rowHeight
}

// ItemHeight returns the height of row i.
func (v *Virtualizer) ItemHeight(i int) int {
	if v.tops != nil {
		return v.tops[i+1] - v.tops[i]
	}
	return v.rowHeight
}

// TotalHeight returns the height of all rows together.
func (v *Virtualizer) TotalHeight() int {
	return v.ItemTop(v.count)
}

// IndexAt returns the row containing offset y, clamped to valid rows.
// Returns -1 when there are no rows.
func (v *Virtualizer) IndexAt(y int) int {
	if v.count == 0 {
		return -1
	}
	if y < 0 {
		return 0
	}
	var i int
	if v.tops != nil {
		i = sort.Search(v.count, func(k int) bool { return v.tops[k+1] > y })
	} else {
		i = y / v.rowHeight
	}
	if i >= v.count {
		i = v.count - 1
	}
	return i
}

func (v *Virtualizer) maxOffset() int {
	m := v.TotalHeight() - v.viewport
	if m < 0 {
		return 0
	}
	return m
}

func (v *Virtualizer) clamp(offset int) int {
	if offset > v.maxOffset() {
		offset = v.maxOffset()
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Window computes the rows covering the viewport at scrollOffset, widened
// by the overscan margin on both sides.
func (v *Virtualizer) Window(scrollOffset int) VisibleWindow {
	if v.count == 0 || v.viewport <= 0 {
		return VisibleWindow{}
	}
	scrollOffset = v.clamp(scrollOffset)
	start := v.IndexAt(scrollOffset)
	end := v.IndexAt(scrollOffset+v.viewport-1) + 1

	w := VisibleWindow{
		Start:       start,
		End:         end,
		RenderStart: start - v.overscan,
		RenderEnd:   end + v.overscan,
	}
	if w.RenderStart < 0 {
		w.RenderStart = 0
	}
	if w.RenderEnd > v.count {
		w.RenderEnd = v.count
	}
	return w
}

// Current returns the window at the virtualizer's own scroll offset.
func (v *Virtualizer) Current() VisibleWindow {
	return v.Window(v.offset)
}

// ScrollOffset returns the current scroll offset.
func (v *Virtualizer) ScrollOffset() int { return v.offset }

// SetScrollOffset moves to offset, clamped to the scrollable range.
func (v *Virtualizer) SetScrollOffset(offset int) {
	v.offset = v.clamp(offset)
}

// ScrollBy moves the offset by delta units.
func (v *Virtualizer) ScrollBy(delta int) {
	v.SetScrollOffset(v.offset + delta)
}

// ScrollToItem brings row index into view using placement. Out of range
// indices are ignored.
func (v *Virtualizer) ScrollToItem(index int, placement Placement) {
	if index < 0 || index >= v.count {
		return
	}
	top := v.ItemTop(index)
	bottom := top + v.ItemHeight(index)
	switch placement {
	case PlacementStart:
		v.offset = v.clamp(top)
	default:
		if top < v.offset {
			v.offset = v.clamp(top)
		} else if bottom > v.offset+v.viewport {
			v.offset = v.clamp(bottom - v.viewport)
		}
	}
}
