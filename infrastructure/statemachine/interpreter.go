package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/domain/plan"
)

// Tracker wraps the statekit interpreter with plan-lifecycle semantics.
// The Director creates one tracker per active plan and feeds it the plan's
// statuses; the tracker keeps the authoritative lifecycle state and history.
type Tracker struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewTracker builds a machine and interpreter for the given plan and enters
// the pending state.
func NewTracker(planID string) (*Tracker, error) {
	machine, err := NewPlanMachine()
	if err != nil {
		return nil, err
	}

	ctx := NewContext(planID)
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()

	return &Tracker{interp: interp, ctx: ctx}, nil
}

// Begin marks the plan as running.
func (t *Tracker) Begin(reason string) {
	t.send(EventStart, StateRunning, reason)
}

// Observe feeds a plan status to the tracker. Running is not a transition;
// terminal statuses move the machine to its matching final state. Statuses
// observed after a final state are ignored.
func (t *Tracker) Observe(status plan.Status, reason string) {
	event, ok := EventForStatus(status)
	if !ok || t.Done() {
		return
	}
	t.send(event, stateForEvent(event), reason)
}

// State returns the tracked lifecycle state.
func (t *Tracker) State() statekit.StateID {
	return t.interp.State().Value
}

// Done reports whether the machine reached a final state.
func (t *Tracker) Done() bool {
	return t.interp.Done()
}

// PlanID returns the tracked plan's identity.
func (t *Tracker) PlanID() string {
	return t.ctx.PlanID
}

// History returns the recorded transitions.
func (t *Tracker) History() []Transition {
	out := make([]Transition, len(t.ctx.History))
	copy(out, t.ctx.History)
	return out
}

func (t *Tracker) send(event statekit.EventType, to statekit.StateID, reason string) {
	t.interp.Send(statekit.Event{
		Type:    event,
		Payload: TransitionPayload{To: to, Reason: reason},
	})
}
