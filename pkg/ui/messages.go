package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/watcher"
)

// AnimationEndMsg is sent when a row's highlight expired.
type AnimationEndMsg struct {
	ID string
}

// FileChangedMsg is sent when a watched tree file changes on disk.
type FileChangedMsg struct{}

// ReloadedMsg carries the result of reloading the tree files.
type ReloadedMsg struct {
	Forest *model.Forest
	Err    error
}

// LoadFunc loads the forest from the configured sources.
type LoadFunc func(ctx context.Context) (*model.Forest, error)

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs load off the UI goroutine and reports the result.
func ReloadCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		forest, err := load(context.Background())
		return ReloadedMsg{Forest: forest, Err: err}
	}
}

// programBridge lets callbacks that fire on other goroutines (the animation
// timer) post messages into the running program. It is shared by every
// copy of the Model.
type programBridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func (b *programBridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

// send posts msg to the attached program. Messages are dropped while no
// program is attached.
func (b *programBridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// treeEvents collects engine callbacks fired synchronously during an
// Update so the value-typed Model can act on them afterwards.
type treeEvents struct {
	activated *model.Item
	collapsed []string
	selection int
}

func (e *treeEvents) reset() {
	e.activated = nil
	e.collapsed = e.collapsed[:0]
	e.selection = 0
}
