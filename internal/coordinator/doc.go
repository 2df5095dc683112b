// Package coordinator drives imperative, window-rooted navigation.
//
// A Coordinator is in one of three states: it has no window yet, the window
// shows a flat root, or the window shows a navigation stack. Screens are
// never constructed directly; the coordinator asks its Registry to build a
// fresh Presentable for each route.
//
// Unlike the declarative router, every precondition is strict: a request
// that cannot be honoured returns one of the sentinel errors and leaves the
// visible hierarchy untouched.
package coordinator
