// Package plan holds ordered, service-bound action sequences and the
// cooperative state machine that executes them one poll per tick.
package plan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Status is the per-plan execution status.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the status ends the plan.
func (s Status) IsTerminal() bool { return s != StatusRunning }

// Step is a bound action: the action plus the resolved substitution table
// for its service-tagged effects, and the goal state the regression paired
// with it (handed to the action's hooks at execution time).
type Step struct {
	Action    *action.Action
	Services  world.State
	GoalState world.State
}

func (s Step) String() string { return s.Action.Name() }

// Observer receives plan execution events. Implementations must not block;
// execution is single-threaded and tick-driven.
type Observer interface {
	StepEntered(planID string, index int, step Step)
	StepCompleted(planID string, index int, step Step)
	StepFailed(planID string, index int, step Step)
	PlanFinished(planID string, status Status)
}

// Option configures a Plan.
type Option func(*Plan)

// WithObserver attaches an execution observer.
func WithObserver(o Observer) Option {
	return func(p *Plan) { p.observer = o }
}

// WithID overrides the generated plan ID.
func WithID(id string) Option {
	return func(p *Plan) { p.id = id }
}

type stepPhase uint8

const (
	phaseEnter stepPhase = iota
	phasePoll
)

// Plan executes its steps strictly forward, at most one step per Update
// call. The world state is mutated only at successful step exits, and only
// for actions that apply effects on exit.
type Plan struct {
	id        string
	steps     []Step
	world     world.State
	observer  Observer
	cursor    int
	phase     stepPhase
	status    Status
	cancelled bool
}

// New returns a running plan over the given world.
func New(ws world.State, steps []Step, opts ...Option) *Plan {
	p := &Plan{
		id:     uuid.NewString(),
		steps:  steps,
		world:  ws,
		status: StatusRunning,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the plan identity.
func (p *Plan) ID() string { return p.id }

// Steps returns a copy of the ordered step list.
func (p *Plan) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.steps) }

// Status returns the current plan status.
func (p *Plan) Status() Status { return p.status }

// CurrentStep returns the step the cursor points at, if the plan is still
// running.
func (p *Plan) CurrentStep() (Step, bool) {
	if p.status != StatusRunning || p.cursor >= len(p.steps) {
		return Step{}, false
	}
	return p.steps[p.cursor], true
}

// Cancel requests cooperative cancellation. It is honored at the next
// Update call, which invokes the current step's failure hook and yields
// StatusCancelled.
func (p *Plan) Cancel() { p.cancelled = true }

// Update advances the plan by at most one step and returns the resulting
// status. Terminal statuses latch: further calls return the same value.
func (p *Plan) Update() Status {
	if p.status != StatusRunning {
		return p.status
	}

	if p.cancelled {
		if p.cursor < len(p.steps) {
			step := &p.steps[p.cursor]
			step.Action.OnFailure(p.world, step.GoalState)
		}
		return p.finish(StatusCancelled)
	}

	if p.cursor >= len(p.steps) {
		return p.finish(StatusSuccess)
	}
	step := &p.steps[p.cursor]

	if p.phase == phaseEnter {
		if !step.Action.CheckPrecondition(step.Services, action.ModeExecution) {
			p.notifyStepFailed(*step)
			return p.finish(StatusFailure)
		}
		step.Action.OnEnter(p.world, step.GoalState)
		p.phase = phasePoll
		if p.observer != nil {
			p.observer.StepEntered(p.id, p.cursor, *step)
		}
	}

	switch step.Action.Status(p.world, step.GoalState) {
	case action.StatusRunning:
		return StatusRunning

	case action.StatusFailure:
		step.Action.OnFailure(p.world, step.GoalState)
		p.notifyStepFailed(*step)
		return p.finish(StatusFailure)

	default: // success
		step.Action.OnExit(p.world, step.GoalState)
		if step.Action.AppliesEffectsOnExit() {
			p.commit(step)
		}
		if p.observer != nil {
			p.observer.StepCompleted(p.id, p.cursor, *step)
		}
		p.cursor++
		p.phase = phaseEnter
		if p.cursor == len(p.steps) {
			return p.finish(StatusSuccess)
		}
		return StatusRunning
	}
}

// commit writes the step's effects into the world: service effects resolve
// through the bound services table, literal effects apply as declared.
func (p *Plan) commit(step *Step) {
	for key, value := range step.Action.Effects() {
		if value.Kind == action.KindService {
			p.world.Set(key, step.Services.Get(key))
			continue
		}
		p.world.Set(key, value.Literal)
	}
}

func (p *Plan) finish(status Status) Status {
	p.status = status
	if p.observer != nil {
		p.observer.PlanFinished(p.id, status)
	}
	return status
}

func (p *Plan) notifyStepFailed(step Step) {
	if p.observer != nil {
		p.observer.StepFailed(p.id, p.cursor, step)
	}
}

func (p *Plan) String() string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		marker := ""
		if i == p.cursor && p.status == StatusRunning {
			marker = "*"
		}
		names[i] = step.Action.Name() + marker
	}
	return fmt.Sprintf("Plan(%s): %s", p.status, strings.Join(names, " -> "))
}
