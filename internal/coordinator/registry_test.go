package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finishRecorder struct{ finished int }

func (f *finishRecorder) OnboardingFinished() { f.finished++ }

func TestRegistry_ResolveBuildsFreshModules(t *testing.T) {
	reg := DemoRegistry(nil)

	a, err := reg.Resolve(RouteSplash)
	require.NoError(t, err)
	b, err := reg.Resolve(RouteSplash)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, RouteSplash, a.Route())
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := NewRegistry().Resolve("ghost")
	assert.ErrorIs(t, err, ErrNotResolved)
}

func TestRegistry_NilBuild(t *testing.T) {
	reg := NewRegistry().Register("void", func() Presentable { return nil })
	_, err := reg.Resolve("void")
	assert.ErrorIs(t, err, ErrNotResolved)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := NewRegistry().Register("a", func() Presentable { return nil })
	assert.Panics(t, func() { reg.Register("a", func() Presentable { return nil }) })
}

func TestRegistry_Routes(t *testing.T) {
	assert.Equal(t, []Route{RouteMarketing, RouteOnboarding, RouteSplash}, DemoRegistry(nil).Routes())
}

func TestModule_DefaultStateAndOutput(t *testing.T) {
	rec := &finishRecorder{}
	reg := DemoRegistry(rec)

	p, err := reg.Resolve(RouteOnboarding)
	require.NoError(t, err)

	m, ok := p.(*Module[OnboardingState, OnboardingOutput])
	require.True(t, ok)
	assert.Equal(t, OnboardingState{Page: 1, Pages: 3}, m.State())

	m.Output().OnboardingFinished()
	assert.Equal(t, 1, rec.finished)
}

func TestModuleBuilder_Configure(t *testing.T) {
	build := ModuleBuilder[MarketingState, struct{}](RouteMarketing, struct{}{}, func(s *MarketingState) {
		s.Headline = "Spring sale"
	})

	m := build().(*Module[MarketingState, struct{}])
	assert.Equal(t, "Spring sale", m.State().Headline)
	assert.Equal(t, MarketingState{Headline: "Marketing"}, DefaultState[MarketingState]())
	assert.Equal(t, "marketing{Headline:Spring sale}", m.String())
}
