package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T) (*Coordinator, *MemoryWindow) {
	t.Helper()
	c := New(DemoRegistry(nil))
	w := NewMemoryWindow()
	require.NoError(t, c.Start(w, RouteSplash))
	return c, w
}

func withNav(t *testing.T, routes ...Route) (*Coordinator, *MemoryWindow) {
	t.Helper()
	c, w := started(t)
	require.NoError(t, c.SetNavRoot(routes[0]))
	for _, r := range routes[1:] {
		require.NoError(t, c.Push(r, 0))
	}
	return c, w
}

func TestCoordinator_Start(t *testing.T) {
	c := New(DemoRegistry(nil))
	assert.Equal(t, StateNoWindow, c.State())

	w := NewMemoryWindow()
	require.NoError(t, c.Start(w, RouteSplash))

	assert.Equal(t, StateFlatRoot, c.State())
	assert.True(t, w.Visible())
	assert.Equal(t, RouteSplash, w.Root().Route())
	assert.Equal(t, []RootChange{{Root: "splash{Title:Splash}", Animation: AnimationNone}}, w.History())
}

func TestCoordinator_StartUnknownRouteKeepsWindow(t *testing.T) {
	c := New(DemoRegistry(nil))
	w := NewMemoryWindow()

	err := c.Start(w, "nowhere")
	assert.ErrorIs(t, err, ErrNotResolved)
	assert.ErrorContains(t, err, `"nowhere"`)
	assert.Equal(t, StateFlatRoot, c.State())
	assert.False(t, w.Visible())

	require.NoError(t, c.SetRoot(RouteMarketing))
}

func TestCoordinator_RequiresWindow(t *testing.T) {
	c := New(DemoRegistry(nil))

	assert.ErrorIs(t, c.SetRoot(RouteSplash), ErrNoWindow)
	assert.ErrorIs(t, c.SetNavRoot(RouteSplash), ErrNoWindow)
	assert.ErrorIs(t, c.Push(RouteSplash, 0), ErrNoNavigation)
	assert.ErrorIs(t, c.GoBack(1), ErrNoNavigation)
	assert.ErrorIs(t, c.GoToRoot(), ErrNoNavigation)
}

func TestCoordinator_ResolveFailsBeforeWindowCheck(t *testing.T) {
	c := New(DemoRegistry(nil))

	assert.ErrorIs(t, c.SetRoot("nowhere"), ErrNotResolved)
	assert.ErrorIs(t, c.SetNavRoot("nowhere"), ErrNotResolved)
}

func TestCoordinator_PushChecksNavigationBeforeResolve(t *testing.T) {
	c, _ := started(t)

	err := c.Push("nowhere", 0)
	assert.ErrorIs(t, err, ErrNoNavigation)
	assert.NotErrorIs(t, err, ErrNotResolved)

	require.NoError(t, c.SetNavRoot(RouteMarketing))
	assert.ErrorIs(t, c.Push("nowhere", 0), ErrNotResolved)
	assert.Equal(t, []Route{RouteMarketing}, c.Nav().Routes())
}

func TestCoordinator_SetRootCrossFades(t *testing.T) {
	c, w := started(t)

	require.NoError(t, c.SetRoot(RouteMarketing))

	history := w.History()
	require.Len(t, history, 2)
	assert.Equal(t, AnimationCrossFade, history[1].Animation)
	assert.Equal(t, RouteMarketing, w.Root().Route())
}

func TestCoordinator_FlatRootHasNoNavigation(t *testing.T) {
	c, _ := withNav(t, RouteMarketing, RouteOnboarding)
	require.NoError(t, c.SetRoot(RouteSplash))

	assert.Equal(t, StateFlatRoot, c.State())
	assert.Nil(t, c.Nav())
	assert.ErrorIs(t, c.Push(RouteOnboarding, 0), ErrNoNavigation)
}

func TestCoordinator_SetNavRoot(t *testing.T) {
	c, w := started(t)

	require.NoError(t, c.SetNavRoot(RouteMarketing))

	assert.Equal(t, StateNavRoot, c.State())
	assert.Equal(t, []Route{RouteMarketing}, c.Nav().Routes())
	assert.Equal(t, "nav[marketing]", w.Describe())
	assert.Equal(t, AnimationCrossFade, w.History()[1].Animation)
}

func TestCoordinator_Push(t *testing.T) {
	c, w := withNav(t, RouteSplash, RouteMarketing)

	require.NoError(t, c.Push(RouteOnboarding, 0))
	assert.Equal(t, []Route{RouteSplash, RouteMarketing, RouteOnboarding}, c.Nav().Routes())
	assert.Equal(t, "nav[splash > marketing > onboarding]", w.Describe())

	assert.ErrorIs(t, c.Push("nowhere", 0), ErrNotResolved)
	assert.Equal(t, 3, c.Nav().Depth(), "failed push leaves the stack unchanged")
}

func TestCoordinator_PushWithCut(t *testing.T) {
	tests := []struct {
		name string
		cut  int
		want []Route
	}{
		{"cut one", 1, []Route{RouteSplash, RouteMarketing, RouteOnboarding}},
		{"cut two", 2, []Route{RouteSplash, RouteOnboarding}},
		{"cut all", 3, []Route{RouteOnboarding}},
		{"cut beyond depth", 10, []Route{RouteOnboarding}},
		{"negative is plain push", -1, []Route{RouteSplash, RouteMarketing, RouteMarketing, RouteOnboarding}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := withNav(t, RouteSplash, RouteMarketing, RouteMarketing)
			require.NoError(t, c.Push(RouteOnboarding, tt.cut))
			assert.Equal(t, tt.want, c.Nav().Routes())
		})
	}
}

func TestCoordinator_GoBack(t *testing.T) {
	tests := []struct {
		name    string
		steps   int
		want    []Route
		wantErr bool
	}{
		{"zero is noop", 0, []Route{RouteSplash, RouteMarketing, RouteOnboarding}, false},
		{"one", 1, []Route{RouteSplash, RouteMarketing}, false},
		{"to root", 2, []Route{RouteSplash}, false},
		{"equal to depth", 3, nil, true},
		{"beyond depth", 5, nil, true},
		{"negative", -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := withNav(t, RouteSplash, RouteMarketing, RouteOnboarding)
			before := c.Nav().Routes()

			err := c.GoBack(tt.steps)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPopSteps)
				assert.Equal(t, before, c.Nav().Routes(), "stack unchanged on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Nav().Routes())
		})
	}
}

func TestCoordinator_GoToRoot(t *testing.T) {
	c, _ := withNav(t, RouteMarketing, RouteOnboarding, RouteSplash)

	require.NoError(t, c.GoToRoot())
	assert.Equal(t, []Route{RouteMarketing}, c.Nav().Routes())

	require.NoError(t, c.GoToRoot(), "already at root")
	assert.Equal(t, 1, c.Nav().Depth())
}

// splash → nav root marketing → push onboarding → back → root splash
func TestCoordinator_DemoSequence(t *testing.T) {
	c := New(DemoRegistry(nil))
	w := NewMemoryWindow()

	require.NoError(t, c.Start(w, RouteSplash))
	assert.Equal(t, "splash{Title:Splash}", w.Describe())

	require.NoError(t, c.SetNavRoot(RouteMarketing))
	require.NoError(t, c.Push(RouteOnboarding, 0))
	assert.Equal(t, "nav[marketing > onboarding]", w.Describe())

	require.NoError(t, c.GoBack(1))
	assert.Equal(t, "nav[marketing]", w.Describe())

	require.NoError(t, c.SetRoot(RouteSplash))
	assert.Equal(t, StateFlatRoot, c.State())

	var animations []Animation
	for _, ch := range w.History() {
		animations = append(animations, ch.Animation)
	}
	assert.Equal(t, []Animation{AnimationNone, AnimationCrossFade, AnimationCrossFade}, animations)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no_window", StateNoWindow.String())
	assert.Equal(t, "flat_root", StateFlatRoot.String())
	assert.Equal(t, "nav_root", StateNavRoot.String())
	assert.Equal(t, "cross_fade", AnimationCrossFade.String())
}
