package coordinator

// Demo routes.
const (
	RouteSplash     Route = "splash"
	RouteMarketing  Route = "marketing"
	RouteOnboarding Route = "onboarding"
)

type SplashState struct {
	Title string
}

func (SplashState) Default() SplashState { return SplashState{Title: "Splash"} }

type MarketingState struct {
	Headline string
}

func (MarketingState) Default() MarketingState { return MarketingState{Headline: "Marketing"} }

type OnboardingState struct {
	Page  int
	Pages int
}

func (OnboardingState) Default() OnboardingState { return OnboardingState{Page: 1, Pages: 3} }

// OnboardingOutput receives events from the onboarding module.
type OnboardingOutput interface {
	OnboardingFinished()
}

// DemoRegistry registers the splash, marketing and onboarding modules.
// onboarding may be nil.
func DemoRegistry(onboarding OnboardingOutput) *Registry {
	return NewRegistry().
		Register(RouteSplash, ModuleBuilder[SplashState, struct{}](RouteSplash, struct{}{}, nil)).
		Register(RouteMarketing, ModuleBuilder[MarketingState, struct{}](RouteMarketing, struct{}{}, nil)).
		Register(RouteOnboarding, ModuleBuilder[OnboardingState, OnboardingOutput](RouteOnboarding, onboarding, nil))
}
