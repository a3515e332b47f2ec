package statemachine

import "github.com/felixgeelhaar/statekit"

// recordTransition appends the transition to the context history and
// advances the tracked state. In statekit, actions receive a pointer to the
// context; since our context is *Context, actions receive **Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx

	to := stateForEvent(event.Type)
	reason := ""
	if payload, ok := event.Payload.(TransitionPayload); ok {
		if payload.To != "" {
			to = payload.To
		}
		reason = payload.Reason
	}

	c.History = append(c.History, Transition{
		From:   c.Current,
		To:     to,
		Reason: reason,
	})
	c.Current = to
}
