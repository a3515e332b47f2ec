package statemachine

import "github.com/felixgeelhaar/statekit"

// guardFromRunning admits terminal events only while the plan is tracked as
// running. In statekit, guards receive the context by value; since our
// context is *Context, the guard receives *Context directly.
func guardFromRunning(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.Current == StateRunning
}
