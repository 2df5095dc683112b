// Package tui renders the store state and the router stack in a terminal
// and turns key presses into actions and navigation.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/observe"
	"github.com/roach88/uniflow/internal/router"
)

type stateMsg app.State

type stackMsg []app.Screen

// Model is the bubbletea model. It never mutates state itself: keys become
// actions sent to the store, and the view follows the store's
// subscription.
type Model struct {
	store  *app.Store
	router *router.Router[app.Screen]

	stateSub *observe.Subscription[app.State]
	stackSub *observe.Subscription[[]app.Screen]

	state  app.State
	stack  []app.Screen
	status string
	width  int
}

// New subscribes to st and nav. Close releases the subscriptions.
func New(st *app.Store, nav *router.Router[app.Screen]) Model {
	return Model{
		store:    st,
		router:   nav,
		stateSub: st.Subscribe(),
		stackSub: nav.Subscribe(),
		state:    st.State(),
		stack:    nav.Stack(),
	}
}

// Close releases the subscriptions.
func (m Model) Close() {
	m.stateSub.Close()
	m.stackSub.Close()
}

// State returns the last state the model rendered.
func (m Model) State() app.State { return m.state }

// Stack returns the last stack the model rendered.
func (m Model) Stack() []app.Screen { return m.stack }

func waitState(sub *observe.Subscription[app.State]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-sub.C()
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func waitStack(sub *observe.Subscription[[]app.Screen]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-sub.C()
		if !ok {
			return nil
		}
		return stackMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.send(app.ThemeInitialize{}),
		waitState(m.stateSub),
		waitStack(m.stackSub),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = app.State(msg)
		return m, waitState(m.stateSub)
	case stackMsg:
		m.stack = []app.Screen(msg)
		return m, waitStack(m.stackSub)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if a, ok := actionKeys[key]; ok {
		m.status = a.String()
		return m, m.send(a)
	}
	if s, ok := screenKeys[key]; ok {
		m.router.Navigate(s)
		m.stack = m.router.Stack()
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		var a app.Action = app.ThemeSetBlack{}
		if m.state.IsDarkTheme {
			a = app.ThemeSetWhite{}
		}
		m.status = a.String()
		return m, m.send(a)
	case "esc", "backspace":
		m.router.Back(1)
		m.stack = m.router.Stack()
	case "r":
		m.router.ToRoot()
		m.stack = m.router.Stack()
	}
	return m, nil
}

// send enqueues a; the resulting state arrives through the subscription.
func (m Model) send(a app.Action) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		if !st.Send(a) {
			slog.Warn("store stopped, action dropped", "action", a.String())
		}
		return nil
	}
}

func (m Model) View() string {
	st := newStyles(m.state.IsDarkTheme)

	var b strings.Builder
	screen := app.ScreenHome
	if n := len(m.stack); n > 0 {
		screen = m.stack[n-1]
	}
	b.WriteString(st.title.Render(screen.Title()))
	b.WriteString("\n")
	b.WriteString(st.crumbs.Render(breadcrumbs(m.stack)))
	b.WriteString("\n\n")
	b.WriteString(m.body(screen, st))
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(st.status.Render("last: " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(st.footer.Render(footer()))

	out := st.app.Render(b.String())
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m Model) body(screen app.Screen, st styles) string {
	switch screen {
	case app.ScreenCounter:
		line := st.counter.Render(fmt.Sprintf("%d", m.state.Counter))
		if m.state.IsLoading {
			line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", st.loading.Render("loading..."))
		}
		return line
	case app.ScreenSettings:
		theme := "light"
		if m.state.IsDarkTheme {
			theme = "dark"
		}
		return "Theme: " + theme
	case app.ScreenAbout:
		return "Unidirectional state with a declarative router."
	default:
		return m.state.String()
	}
}

func breadcrumbs(stack []app.Screen) string {
	if len(stack) == 0 {
		return "(empty)"
	}
	names := make([]string, len(stack))
	for i, s := range stack {
		names[i] = s.Title()
	}
	return strings.Join(names, " › ")
}

func footer() string {
	parts := make([]string, len(footerBindings))
	for i, k := range footerBindings {
		parts[i] = k.key + " " + k.help
	}
	return strings.Join(parts, " · ")
}
