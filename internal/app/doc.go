// Package app is the reference domain driven by the engine: a loading flag,
// a theme flag and a counter, split into the loader, counter and theme
// subsystems.
//
// Actions and effects are sealed unions. Each subsystem has its own action
// and effect interface, its own reducer and its own handler; the root
// reducer and root handler only route by subsystem and preserve effect
// order.
//
// Textual form (used by the CLI, scenarios and traces):
//
//	loader.toggle:true
//	counter.increase
//	counter.update:5
//	counter.fetch_from_storage
//	counter.save_to_storage
//	counter.pull_from_network
//	theme.initialize
//	theme.set_black
//	theme.set_white
package app
