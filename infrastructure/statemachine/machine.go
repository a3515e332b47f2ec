// Package statemachine provides the statekit statechart that tracks a
// plan's execution lifecycle for the Director.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/domain/plan"
)

// Lifecycle states.
const (
	StatePending   statekit.StateID = "pending"
	StateRunning   statekit.StateID = "running"
	StateSucceeded statekit.StateID = "succeeded"
	StateFailed    statekit.StateID = "failed"
	StateCancelled statekit.StateID = "cancelled"
)

// Lifecycle events.
const (
	EventStart   statekit.EventType = "START"
	EventSucceed statekit.EventType = "SUCCEED"
	EventFail    statekit.EventType = "FAIL"
	EventCancel  statekit.EventType = "CANCEL"
)

// Transition records one lifecycle transition.
type Transition struct {
	From   statekit.StateID
	To     statekit.StateID
	Reason string
}

// TransitionPayload carries additional data with a lifecycle event.
type TransitionPayload struct {
	To     statekit.StateID
	Reason string
}

// Context carries plan lifecycle state through the machine.
type Context struct {
	PlanID  string
	Current statekit.StateID
	History []Transition
}

// NewContext creates a machine context for the given plan.
func NewContext(planID string) *Context {
	return &Context{
		PlanID:  planID,
		Current: StatePending,
	}
}

// NewPlanMachine creates the canonical plan lifecycle statechart.
func NewPlanMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("plan").
		WithInitial(StatePending).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("fromRunning", guardFromRunning).
		State(StatePending).
			On(EventStart).Target(StateRunning).Do("recordTransition").
			On(EventCancel).Target(StateCancelled).Do("recordTransition").
			Done().
		State(StateRunning).
			On(EventSucceed).Target(StateSucceeded).Guard("fromRunning").Do("recordTransition").
			On(EventFail).Target(StateFailed).Guard("fromRunning").Do("recordTransition").
			On(EventCancel).Target(StateCancelled).Guard("fromRunning").Do("recordTransition").
			Done().
		State(StateSucceeded).
			Final().
			Done().
		State(StateFailed).
			Final().
			Done().
		State(StateCancelled).
			Final().
			Done().
		Build()
}

// EventForStatus maps a terminal plan status to its lifecycle event. The
// second return is false for non-terminal statuses, which carry no event.
func EventForStatus(status plan.Status) (statekit.EventType, bool) {
	switch status {
	case plan.StatusSuccess:
		return EventSucceed, true
	case plan.StatusFailure:
		return EventFail, true
	case plan.StatusCancelled:
		return EventCancel, true
	default:
		return "", false
	}
}

// stateForEvent derives the target state from an event type when a payload
// is absent.
func stateForEvent(eventType statekit.EventType) statekit.StateID {
	switch eventType {
	case EventStart:
		return StateRunning
	case EventSucceed:
		return StateSucceeded
	case EventFail:
		return StateFailed
	case EventCancel:
		return StateCancelled
	default:
		return statekit.StateID(eventType)
	}
}
