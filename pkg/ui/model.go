// Package ui is the terminal front end of canopy: a bubbletea program that
// hosts the tree engine, maps keys and clicks onto it and renders the
// visible window of rows next to a detail pane.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/canopy/internal/datasource"
	"github.com/vanderheijden86/canopy/pkg/config"
	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/fuzzyrank"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
	"github.com/vanderheijden86/canopy/pkg/watcher"
)

// Default terminal size used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures NewModel.
type Options struct {
	Config config.Config
	// Load reloads the forest after a watched file changed. nil disables
	// reloading.
	Load    LoadFunc
	Watcher *watcher.Watcher

	Title         string
	InitialSearch string
	Fuzzy         bool
	// OpenIDs are restored persistently open ids, added to the configured
	// initially open ones.
	OpenIDs []string

	Clock treeview.Clock
}

// browserState is shared by every copy of the value-typed Model: the
// engine callbacks and the timer goroutine reach it through a pointer.
type browserState struct {
	forest   *model.Forest
	tree     *treeview.TreeView[*model.Item]
	events   treeEvents
	bridge   programBridge
	markdown *markdownRenderer
}

// Model is the bubbletea model of the tree browser.
type Model struct {
	st *browserState

	cfg   config.Config
	keys  KeyMap
	theme Theme
	title string

	search        textinput.Model
	searchFocused bool

	fuzzy      bool
	fuzzyLimit int
	ranking    fuzzyrank.Ranking

	forceAll    bool
	showDetails bool
	showHelp    bool

	width  int
	height int

	statusMsg     string
	statusIsError bool

	load    LoadFunc
	watcher *watcher.Watcher
}

// NewModel creates the browser over forest.
func NewModel(forest *model.Forest, opts Options) Model {
	cfg := opts.Config
	st := &browserState{
		forest:   forest,
		markdown: newMarkdownRenderer(cfg.UI.GlamourStyle),
	}

	to := cfg.TreeOptions()
	to.InitiallyOpen = append(to.InitiallyOpen, opts.OpenIDs...)
	to.Navigation = st.navigation()
	to.Clock = opts.Clock
	to.OnActivate = func(it *model.Item) { st.events.activated = it }
	to.OnCollapseItem = func(it *model.Item) { st.events.collapsed = append(st.events.collapsed, it.ID) }
	to.OnSelectionChange = func([]*model.Item) { st.events.selection++ }
	to.OnAnimationEnd = func(id string) { st.bridge.send(AnimationEndMsg{ID: id}) }
	st.tree = treeview.New(to)
	st.tree.SetItems(forest.Roots())

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "type to filter"
	search.CharLimit = 256

	title := opts.Title
	if title == "" {
		title = "canopy"
	}

	m := Model{
		st:          st,
		cfg:         cfg,
		keys:        DefaultKeyMap(),
		theme:       DefaultTheme(lipgloss.DefaultRenderer()),
		title:       title,
		search:      search,
		fuzzy:       opts.Fuzzy,
		fuzzyLimit:  cfg.UI.FuzzyLimit,
		forceAll:    cfg.Tree.ForceAllOpened,
		showDetails: cfg.UI.ShowDetails,
		width:       defaultWidth,
		height:      defaultHeight,
		load:        opts.Load,
		watcher:     opts.Watcher,
	}
	if opts.InitialSearch != "" {
		m.search.SetValue(opts.InitialSearch)
	}
	m.applySearch()
	m.resize()
	return m
}

// navigation adapts the forest's cross-tree navigation to the rows on
// screen: a target that is not currently shown is not focused. The forest
// is read through the shared state so reloads take effect.
func (st *browserState) navigation() treeview.Navigation[*model.Item] {
	visible := func(it *model.Item, ok bool) (*model.Item, bool) {
		if !ok || st.tree.Flattened().IndexOf(it.ID) < 0 {
			return nil, false
		}
		return it, true
	}
	return treeview.Navigation[*model.Item]{
		Inside: func(it *model.Item) (*model.Item, bool) {
			return visible(st.forest.Navigation().Inside(it))
		},
		Outside: func(it *model.Item) (*model.Item, bool) {
			return visible(st.forest.Navigation().Outside(it))
		},
	}
}

// Attach connects the model to its running program so asynchronous events
// (highlight expiry) are delivered as messages.
func (m Model) Attach(p *tea.Program) { m.st.bridge.attach(p) }

// Stop releases the engine's timer.
func (m Model) Stop() { m.st.tree.Stop() }

// Tree exposes the engine.
func (m Model) Tree() *treeview.TreeView[*model.Item] { return m.st.tree }

// Forest returns the forest currently shown.
func (m Model) Forest() *model.Forest { return m.st.forest }

// OpenIDs returns the persistently open ids, for saving on exit.
func (m Model) OpenIDs() []string { return m.st.tree.OpenIDs() }

// StatusMessage returns the footer message and whether it is an error.
func (m Model) StatusMessage() (string, bool) { return m.statusMsg, m.statusIsError }

// SearchFocused reports whether key presses go to the search input.
func (m Model) SearchFocused() bool { return m.searchFocused }

// FuzzyMode reports whether the fuzzy ranking replaces containment search.
func (m Model) FuzzyMode() bool { return m.fuzzy }

// ShowDetails reports whether the detail pane is enabled.
func (m Model) ShowDetails() bool { return m.showDetails }

// ShowHelp reports whether the help overlay is shown.
func (m Model) ShowHelp() bool { return m.showHelp }

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.st.events.reset()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case AnimationEndMsg:
		debug.Log("ui: highlight of %s ended", msg.ID)

	case FileChangedMsg:
		if m.load != nil {
			cmds = append(cmds, ReloadCmd(m.load))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case ReloadedMsg:
		m.applyReload(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.searchFocused {
			m, cmd = m.updateSearch(msg)
		} else {
			m, cmd = m.handleKey(msg)
		}
		cmds = append(cmds, cmd)
	}

	m.drainEvents()
	return m, tea.Batch(cmds...)
}

// updateSearch handles keys while the search input has focus.
func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.searchFocused = false
		m.applySearch()
		return m, nil
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeyTab:
		m.search.Blur()
		m.searchFocused = false
		return m, nil
	case msg.Type == tea.KeyUp:
		m.st.tree.HandleKey(treeview.KeyArrowUp)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.st.tree.HandleKey(treeview.KeyArrowDown)
		return m, nil
	case key.Matches(msg, m.keys.Fuzzy):
		m.toggleFuzzy()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.applySearch()
	}
	return m, cmd
}

// handleKey handles keys while the tree has focus.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	tree := m.st.tree

	if m.showHelp {
		// Any key closes the overlay
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Search):
		m.searchFocused = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.ClearSearch):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.applySearch()
		}

	case key.Matches(msg, m.keys.Fuzzy):
		m.toggleFuzzy()

	case key.Matches(msg, m.keys.ExpandAll):
		m.forceAll = !m.forceAll
		tree.SetForceAllOpened(m.forceAll)

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		m.resize()

	case key.Matches(msg, m.keys.Yank):
		m.yank()

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.focusedRow(); ok {
			tree.Toggle(row)
		}

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.focusedRow(); ok {
			tree.Select([]*model.Item{row.Item}, false)
		}

	case key.Matches(msg, m.keys.PageDown):
		m.page(1)

	case key.Matches(msg, m.keys.PageUp):
		m.page(-1)

	case key.Matches(msg, m.keys.GoToTop):
		m.jump(false)

	case key.Matches(msg, m.keys.GoToBottom):
		m.jump(true)

	default:
		if k, ok := m.keys.NavigationKey(msg); ok {
			tree.HandleKey(k)
		}
	}
	return m, nil
}

// handleMouse maps wheel events onto scrolling and left clicks onto the
// row under the pointer. A click on the disclosure glyph toggles the row;
// elsewhere it selects, exclusively unless ctrl or alt is held.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	virt := m.st.tree.Virtualizer()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		virt.ScrollBy(-3)
		return
	case tea.MouseButtonWheelDown:
		virt.ScrollBy(3)
		return
	case tea.MouseButtonLeft:
	default:
		return
	}
	if msg.Action != tea.MouseActionPress || msg.X >= m.listWidth() {
		return
	}
	y := msg.Y - headerLines
	if y < 0 || y >= m.listHeight() {
		return
	}
	rows := m.st.tree.Rows()
	pos := virt.ScrollOffset() + y
	if pos >= virt.TotalHeight() {
		return // blank space below the last row
	}
	i := virt.IndexAt(pos)
	if i < 0 || i >= len(rows) {
		return
	}
	row := rows[i]
	glyphX := 1 + row.Depth*IndentWidth
	if msg.X == glyphX {
		m.st.tree.Toggle(row)
		return
	}
	m.st.tree.Click(row, !msg.Ctrl && !msg.Alt)
}

// focusedRow returns the row of the first selected item.
func (m Model) focusedRow() (treeview.Row[*model.Item], bool) {
	i := m.st.tree.FocusIndex()
	if i < 0 {
		return treeview.Row[*model.Item]{}, false
	}
	return m.st.tree.Rows()[i], true
}

// page scrolls by one viewport and selects the first focusable row shown.
func (m *Model) page(dir int) {
	tree := m.st.tree
	virt := tree.Virtualizer()
	virt.ScrollBy(dir * m.listHeight())
	w := virt.Current()
	rows := tree.Rows()
	for i := w.Start; i < w.End; i++ {
		if rows[i].Focusable() {
			tree.SetSelection([]*model.Item{rows[i].Item})
			return
		}
	}
}

// jump selects the first or last focusable row and scrolls to it.
func (m *Model) jump(last bool) {
	tree := m.st.tree
	rows := tree.Rows()
	start, step := 0, 1
	if last {
		start, step = len(rows)-1, -1
	}
	for i := start; i >= 0 && i < len(rows); i += step {
		if rows[i].Focusable() {
			tree.SetSelection([]*model.Item{rows[i].Item})
			tree.Virtualizer().ScrollToItem(i, treeview.PlacementSmart)
			return
		}
	}
}

// applySearch pushes the search input into the engine. In fuzzy mode the
// ranking replaces the top-level items and the engine's own containment
// filter stays off.
func (m *Model) applySearch() {
	text := m.search.Value()
	tree := m.st.tree
	if m.fuzzy {
		tree.SetSearchText("")
		m.rerank()
	} else {
		m.ranking = fuzzyrank.Ranking{}
		tree.SetSearchText(text)
		tree.SetItems(m.st.forest.Roots())
	}
	tree.Virtualizer().SetScrollOffset(0)
}

// rerank recomputes the fuzzy ranking for the current input and limit.
func (m *Model) rerank() {
	text := m.search.Value()
	if text == "" {
		m.ranking = fuzzyrank.Ranking{}
		m.st.tree.SetItems(m.st.forest.Roots())
		return
	}
	m.ranking = fuzzyrank.Rank(m.st.forest, text, m.fuzzyLimit)
	m.st.tree.SetItems(m.ranking.Roots())
	debug.Log("ui: fuzzy %q: %d results, %d more", text, len(m.ranking.Results), m.ranking.Remaining)
}

func (m *Model) toggleFuzzy() {
	m.fuzzy = !m.fuzzy
	m.fuzzyLimit = m.cfg.UI.FuzzyLimit
	m.applySearch()
	if m.fuzzy {
		m.setStatus("Fuzzy search on")
	} else {
		m.setStatus("Fuzzy search off")
	}
}

// showMoreResults raises the fuzzy limit by one page after the "more
// results" row was activated.
func (m *Model) showMoreResults() {
	step := m.cfg.UI.FuzzyLimit
	if step <= 0 {
		step = fuzzyrank.DefaultLimit
	}
	if m.fuzzyLimit <= 0 {
		m.fuzzyLimit = step
	}
	m.fuzzyLimit += step
	m.rerank()
}

// drainEvents acts on engine callbacks fired during this update.
func (m *Model) drainEvents() {
	ev := &m.st.events
	if it := ev.activated; it != nil {
		if it.Kind == model.KindMoreResults {
			m.showMoreResults()
		} else {
			m.showDetails = true
			m.resize()
			m.setStatus("%s", it.Name)
		}
	}
	if len(ev.collapsed) > 0 {
		debug.Log("ui: collapsed %v", ev.collapsed)
	}
	ev.reset()
}

// applyReload swaps in a reloaded forest, highlights the items that
// appeared and scrolls the last of them into view.
func (m *Model) applyReload(msg ReloadedMsg) {
	if msg.Err != nil {
		m.setError("Reload failed: %v", msg.Err)
		return
	}
	if msg.Forest == nil {
		return
	}
	diff := datasource.DiffForests(m.st.forest, msg.Forest)
	m.st.forest = msg.Forest
	if m.fuzzy {
		m.rerank()
	} else {
		m.st.tree.SetItems(msg.Forest.Roots())
	}
	m.dropVanishedSelection()

	if n := len(diff.Added); n > 0 {
		last := diff.Added[n-1]
		m.st.tree.Animate(last)
		m.st.tree.ScrollToID(last, treeview.PlacementSmart)
	}
	debug.Log("ui: reload: %s", diff.Summary())
	m.setStatus("Reloaded: %s", diff.Summary())
}

// dropVanishedSelection re-points the selection at the reloaded items and
// drops ids that no longer exist.
func (m *Model) dropVanishedSelection() {
	ids := m.st.tree.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	items := make([]*model.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.st.forest.Get(id); ok {
			items = append(items, it)
		}
	}
	m.st.tree.SetSelection(items)
}

// yank copies the focused item's id to the clipboard.
func (m *Model) yank() {
	row, ok := m.focusedRow()
	if !ok {
		m.setError("Nothing selected")
		return
	}
	if err := clipboard.WriteAll(row.ID); err != nil {
		m.setError("Clipboard error: %v", err)
		return
	}
	m.setStatus("📋 Copied %s to clipboard", row.ID)
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusIsError = false
}

func (m *Model) setError(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusIsError = true
}

// resize recomputes the list viewport after a size or layout change.
func (m *Model) resize() {
	m.st.tree.SetViewportHeight(m.listHeight())
	w := m.listWidth() - lipgloss.Width(m.search.Prompt) - 20
	if w < 10 {
		w = 10
	}
	m.search.Width = w
}

// headerLines is the number of lines above the list.
const headerLines = 1

func (m Model) listHeight() int {
	h := m.height - headerLines - 1 // footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) splitView() bool {
	return m.showDetails && m.width >= SplitViewThreshold
}

func (m Model) listWidth() int {
	if m.splitView() {
		return m.width * 55 / 100
	}
	return m.width
}

func (m Model) detailWidth() int {
	return m.width - m.listWidth()
}
