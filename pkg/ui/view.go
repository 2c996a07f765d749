package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/canopy/pkg/metrics"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
)

func (m Model) View() string {
	defer metrics.Timer(metrics.Render)()

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case m.splitView():
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderList(m.listWidth(), m.listHeight()),
			m.renderDetails(m.detailWidth(), m.listHeight()),
		)
	default:
		body = m.renderList(m.listWidth(), m.listHeight())
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

// ══════════════════════════════════════════════════════════════════════════════
// HEADER / FOOTER
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) renderHeader() string {
	var tags []string
	if m.fuzzy {
		tags = append(tags, "fuzzy")
	}
	if m.forceAll {
		tags = append(tags, "all open")
	}
	if m.st.tree.Searching() {
		tags = append(tags, fmt.Sprintf("%d rows", len(m.st.tree.Rows())))
	}

	left := m.theme.Header.Render(m.title) + " " + m.search.View()
	right := ""
	if len(tags) > 0 {
		right = m.theme.MutedText.Render("[" + strings.Join(tags, "] [") + "]")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.StatusError.Render(truncateRunesHelper(m.statusMsg, m.width, GlyphTruncated))
		}
		return m.theme.Status.Render(truncateRunesHelper(m.statusMsg, m.width, GlyphTruncated))
	}
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, m.theme.HelpKey.Render(h.Key)+" "+m.theme.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.Header.Render("Keys"))
	sb.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			sb.WriteString(padRight(m.theme.HelpKey.Render(h.Key), 10))
			sb.WriteString(m.theme.HelpDesc.Render(h.Desc))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return FocusedPanelStyle.
		Width(m.width - 2).
		Height(m.listHeight() - 2).
		Render(strings.TrimRight(sb.String(), "\n"))
}

// ══════════════════════════════════════════════════════════════════════════════
// TREE LIST
// ══════════════════════════════════════════════════════════════════════════════

// renderList renders the rows intersecting the viewport. Only the visible
// window is realized; the virtualizer's offset is in lines, so a tall row
// cut by the top edge loses its first lines.
func (m Model) renderList(width, height int) string {
	tree := m.st.tree
	rows := tree.Rows()

	var lines []string
	switch err := tree.Err(); {
	case err != nil:
		lines = append(lines, m.theme.StatusError.Render(truncateRunesHelper("Tree error: "+err.Error(), width, GlyphTruncated)))
	case len(rows) == 0 && m.search.Value() != "":
		lines = append(lines, m.theme.MutedText.Render(fmt.Sprintf("No matches for %q", m.search.Value())))
	case len(rows) == 0:
		lines = append(lines, m.theme.MutedText.Render("No items"))
	default:
		virt := tree.Virtualizer()
		offset := virt.ScrollOffset()
		w := tree.VisibleWindow(offset)
		for i := w.Start; i < w.End; i++ {
			lines = append(lines, m.renderRow(rows[i], virt.ItemHeight(i), width)...)
		}
		if skip := offset - virt.ItemTop(w.Start); skip > 0 && skip < len(lines) {
			lines = lines[skip:]
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func disclosureGlyph(row treeview.Row[*model.Item]) string {
	switch {
	case !row.CanHaveChildren:
		return GlyphLeaf
	case !row.HasChildren:
		return GlyphEmpty
	case row.Collapsed:
		return GlyphClosed
	default:
		return GlyphOpen
	}
}

// renderRow renders one row as height lines: the name line followed by
// description lines for tall rows.
func (m Model) renderRow(row treeview.Row[*model.Item], height, width int) []string {
	indent := strings.Repeat(" ", row.Depth*IndentWidth)
	marker := " "
	if row.Selected {
		marker = GlyphSelected
	}
	prefix := marker + indent + disclosureGlyph(row) + " "
	nameWidth := width - lipgloss.Width(prefix)
	name := truncateRunesHelper(row.Name, nameWidth, GlyphTruncated)

	var first string
	switch {
	case row.Selected:
		first = m.theme.Selected.Render(padRight(prefix+name, width))
	case m.st.tree.IsAnimating(row.ID):
		first = m.theme.Flash.Render(padRight(prefix+name, width))
	default:
		first = marker + indent + m.theme.Glyph.Render(disclosureGlyph(row)) + " " +
			highlight(name, m.matchOffsets(row), m.nameStyle(row.Item.Kind), m.theme.Match)
	}

	lines := []string{first}
	if height <= 1 {
		return lines
	}
	descIndent := strings.Repeat(" ", lipgloss.Width(prefix))
	desc := strings.Split(row.Description, "\n")
	for i := 1; i < height; i++ {
		text := ""
		if i-1 < len(desc) {
			text = truncateRunesHelper(strings.TrimSpace(desc[i-1]), nameWidth, GlyphTruncated)
		}
		lines = append(lines, descIndent+m.theme.Description.Render(text))
	}
	return lines
}

func (m Model) nameStyle(k model.Kind) lipgloss.Style {
	switch k {
	case model.KindPlaceholder:
		return m.theme.Placeholder
	case model.KindMoreResults:
		return m.theme.More
	default:
		return m.theme.Base.Foreground(KindColor(k))
	}
}

// matchOffsets returns the name bytes to highlight: the fuzzy match for
// ranked top-level rows, the containment match otherwise.
func (m Model) matchOffsets(row treeview.Row[*model.Item]) []int {
	if !row.Item.Kind.Searchable() {
		return nil
	}
	if m.fuzzy {
		if row.Depth == 0 {
			return m.ranking.Highlights(row.ID)
		}
		return nil
	}
	return containsMatch(row.Name, m.st.tree.SearchText())
}

// ══════════════════════════════════════════════════════════════════════════════
// DETAIL PANE
// ══════════════════════════════════════════════════════════════════════════════

// detailItem returns the focused item as it exists in the current forest.
func (m Model) detailItem() (*model.Item, bool) {
	row, ok := m.focusedRow()
	if !ok {
		return nil, false
	}
	if it, ok := m.st.forest.Get(row.ID); ok {
		return it, true
	}
	return row.Item, true
}

func (m Model) renderDetails(width, height int) string {
	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}
	style := PanelStyle.Width(width - 2).Height(height - 2).Padding(0, 1)

	it, ok := m.detailItem()
	if !ok {
		return style.Render(m.theme.MutedText.Render("Nothing selected"))
	}

	var sb strings.Builder
	sb.WriteString(m.theme.Base.Bold(true).Render(truncateRunesHelper(it.Name, inner, GlyphTruncated)))
	sb.WriteString("\n")
	sb.WriteString(RenderKindBadge(it.Kind))
	sb.WriteString(" ")
	sb.WriteString(m.theme.MutedText.Render(truncateRunesHelper(it.ID, inner-lipgloss.Width(RenderKindBadge(it.Kind))-1, GlyphTruncated)))
	sb.WriteString("\n")

	if parents := m.st.forest.Parents(it.ID); len(parents) > 0 {
		sb.WriteString(m.theme.MutedText.Render(truncateRunesHelper("in: "+strings.Join(parents, ", "), inner, GlyphTruncated)))
		sb.WriteString("\n")
	}
	if children, ok := it.Children(); ok {
		sb.WriteString(m.theme.MutedText.Render(fmt.Sprintf("%d children", len(children))))
		sb.WriteString("\n")
	}
	if it.Thumbnail != "" {
		sb.WriteString(m.theme.MutedText.Render(truncateRunesHelper("thumbnail: "+it.Thumbnail, inner, GlyphTruncated)))
		sb.WriteString("\n")
	}
	if len(it.Dataset) > 0 {
		sb.WriteString("\n")
		for _, k := range sortedKeys(it.Dataset) {
			value := truncateRunesHelper(it.Dataset[k], inner-lipgloss.Width(k)-1, GlyphTruncated)
			sb.WriteString(m.theme.HelpKey.Render(k) + " " + value)
			sb.WriteString("\n")
		}
	}
	if it.Description != "" {
		sb.WriteString("\n")
		if m.cfg.UI.Markdown {
			sb.WriteString(m.st.markdown.Render(it.Description, inner))
		} else {
			sb.WriteString(lipgloss.NewStyle().Width(inner).Render(it.Description))
		}
	}

	content := strings.TrimRight(sb.String(), "\n")
	if lines := strings.Split(content, "\n"); len(lines) > height-2 && height > 2 {
		content = strings.Join(lines[:height-2], "\n")
	}
	return style.Render(content)
}
