package coordinator

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Animation is how a window swaps its root.
type Animation int

const (
	AnimationNone Animation = iota
	AnimationCrossFade
)

func (a Animation) String() string {
	switch a {
	case AnimationNone:
		return "none"
	case AnimationCrossFade:
		return "cross_fade"
	default:
		return fmt.Sprintf("animation(%d)", int(a))
	}
}

// Window hosts the root Presentable.
type Window interface {
	SetRoot(root Presentable, animation Animation)
	MakeKeyAndVisible()
}

// RootChange records one SetRoot call on a MemoryWindow.
type RootChange struct {
	Root      string
	Animation Animation
}

// MemoryWindow is a headless Window that records what it was asked to show.
// Safe for concurrent use.
type MemoryWindow struct {
	mu      sync.Mutex
	root    Presentable
	visible bool
	history []RootChange
}

// NewMemoryWindow creates an empty, hidden window.
func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{}
}

func (w *MemoryWindow) SetRoot(root Presentable, animation Animation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.root = root
	w.history = append(w.history, RootChange{Root: root.String(), Animation: animation})
	slog.Debug("window root changed", "root", root.String(), "animation", animation.String())
}

func (w *MemoryWindow) MakeKeyAndVisible() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
}

// Root returns the current root, nil before the first SetRoot.
func (w *MemoryWindow) Root() Presentable {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root
}

// Visible reports whether MakeKeyAndVisible was called.
func (w *MemoryWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// History returns every root change in order.
func (w *MemoryWindow) History() []RootChange {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]RootChange(nil), w.history...)
}

// Describe renders the current hierarchy, e.g. "nav[splash > marketing]".
func (w *MemoryWindow) Describe() string {
	root := w.Root()
	if root == nil {
		return "<empty>"
	}
	return root.String()
}

// NavStack is a navigation stack presented as a window root.
type NavStack struct {
	mu    sync.RWMutex
	items []Presentable
}

func newNavStack(root Presentable) *NavStack {
	return &NavStack{items: []Presentable{root}}
}

// Route returns the route of the top screen.
func (n *NavStack) Route() Route {
	top := n.Top()
	if top == nil {
		return ""
	}
	return top.Route()
}

// Items returns the stack, root first.
func (n *NavStack) Items() []Presentable {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]Presentable(nil), n.items...)
}

// Routes returns the route of every screen, root first.
func (n *NavStack) Routes() []Route {
	items := n.Items()
	out := make([]Route, len(items))
	for i, p := range items {
		out[i] = p.Route()
	}
	return out
}

// Depth returns the number of screens on the stack.
func (n *NavStack) Depth() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.items)
}

// Top returns the visible screen.
func (n *NavStack) Top() Presentable {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.items) == 0 {
		return nil
	}
	return n.items[len(n.items)-1]
}

func (n *NavStack) String() string {
	routes := n.Routes()
	parts := make([]string, len(routes))
	for i, r := range routes {
		parts[i] = string(r)
	}
	return "nav[" + strings.Join(parts, " > ") + "]"
}

func (n *NavStack) push(p Presentable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, p)
}

// replaceTop drops the last cut screens (at most all of them) and pushes p.
func (n *NavStack) replaceTop(cut int, p Presentable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	keep := len(n.items) - min(cut, len(n.items))
	items := make([]Presentable, 0, keep+1)
	items = append(items, n.items[:keep]...)
	n.items = append(items, p)
}

// truncate keeps the first depth screens.
func (n *NavStack) truncate(depth int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	clear(n.items[depth:])
	n.items = n.items[:depth]
}
