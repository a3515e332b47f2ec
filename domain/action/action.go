// Package action defines the immutable action templates the planner searches
// over and the executor runs: declared effects and preconditions, cost,
// precedence, and explicit behavior hooks.
package action

import (
	"fmt"
	"maps"
	"sort"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Status is the runtime status an action reports while a plan step runs.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Mode distinguishes procedural precondition checks made during a planning
// pass from those made when a step enters execution.
type Mode string

const (
	ModePlanning  Mode = "planning"
	ModeExecution Mode = "execution"
)

// Definition describes an action. All behavior is declared here explicitly;
// there is no runtime type scanning.
type Definition struct {
	// Name identifies the action in plans and logs.
	Name string

	// Effects maps world keys to the values this action produces. Values are
	// literals or services.
	Effects map[string]Value

	// Preconditions maps world keys to the values this action requires.
	// Values are literals or references to declared effects.
	Preconditions map[string]Value

	// Cost is the static edge cost. Zero means the default cost of 1; use
	// CostFunc for genuinely free actions.
	Cost float64

	// CostFunc, when set, computes the cost from the resolved service values
	// and overrides Cost.
	CostFunc func(services world.State) float64

	// Precedence breaks ties among otherwise-equal candidates during
	// expansion; higher precedence is preferred.
	Precedence float64

	// PlanOnly marks purely symbolic actions whose effects exist for the
	// planner and are never committed to the world on exit.
	PlanOnly bool

	// CheckPrecondition is the procedural precondition, consulted with the
	// resolved service values both while planning and when a step enters
	// execution. Nil means always true.
	CheckPrecondition func(services world.State, mode Mode) bool

	// StatusFunc reports the runtime status of the action each tick while
	// its step runs. Nil means the action completes instantly.
	StatusFunc func(ws, goalState world.State) Status

	// OnEnter, OnExit, and OnFailure are execution hooks.
	OnEnter   func(ws, goalState world.State)
	OnExit    func(ws, goalState world.State)
	OnFailure func(ws, goalState world.State)
}

// Action is an immutable action template. Construct with New.
type Action struct {
	def         Definition
	serviceKeys []string
}

// New validates a definition and returns the immutable action. It rejects
// service markers in preconditions, references in effects, and references
// to keys the action does not declare as effects.
func New(def Definition) (*Action, error) {
	if def.Name == "" {
		return nil, ErrNoName
	}
	if len(def.Effects) == 0 {
		return nil, fmt.Errorf("%s: %w", def.Name, ErrNoEffects)
	}

	var serviceKeys []string
	for key, value := range def.Effects {
		switch value.Kind {
		case KindService:
			serviceKeys = append(serviceKeys, key)
		case KindReference:
			return nil, fmt.Errorf("%s: effect %q: %w", def.Name, key, ErrReferenceEffect)
		}
	}
	sort.Strings(serviceKeys)

	for key, value := range def.Preconditions {
		switch value.Kind {
		case KindService:
			return nil, fmt.Errorf("%s: precondition %q: %w", def.Name, key, ErrServicePrecondition)
		case KindReference:
			if _, ok := def.Effects[value.Ref]; !ok {
				return nil, fmt.Errorf("%s: precondition %q references %q: %w",
					def.Name, key, value.Ref, ErrUnknownReference)
			}
		}
	}

	if def.Cost == 0 {
		def.Cost = 1
	}
	def.Effects = maps.Clone(def.Effects)
	def.Preconditions = maps.Clone(def.Preconditions)

	return &Action{def: def, serviceKeys: serviceKeys}, nil
}

// MustNew is New, panicking on invalid definitions. Intended for
// statically-known action sets.
func MustNew(def Definition) *Action {
	a, err := New(def)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the action name.
func (a *Action) Name() string { return a.def.Name }

// Effects returns the declared effects. Callers must not mutate the map.
func (a *Action) Effects() map[string]Value { return a.def.Effects }

// Preconditions returns the declared preconditions. Callers must not mutate
// the map.
func (a *Action) Preconditions() map[string]Value { return a.def.Preconditions }

// ServiceKeys returns the sorted keys of service-tagged effects.
func (a *Action) ServiceKeys() []string { return a.serviceKeys }

// Precedence returns the expansion tie-break order.
func (a *Action) Precedence() float64 { return a.def.Precedence }

// AppliesEffectsOnExit reports whether the executor commits this action's
// effects to the world when the step exits successfully.
func (a *Action) AppliesEffectsOnExit() bool { return !a.def.PlanOnly }

// Cost returns the edge cost given the resolved service values.
func (a *Action) Cost(services world.State) float64 {
	if a.def.CostFunc != nil {
		return a.def.CostFunc(services)
	}
	return a.def.Cost
}

// CheckPrecondition evaluates the procedural precondition.
func (a *Action) CheckPrecondition(services world.State, mode Mode) bool {
	if a.def.CheckPrecondition == nil {
		return true
	}
	return a.def.CheckPrecondition(services, mode)
}

// Status reports the runtime status for the current tick.
func (a *Action) Status(ws, goalState world.State) Status {
	if a.def.StatusFunc == nil {
		return StatusSuccess
	}
	return a.def.StatusFunc(ws, goalState)
}

// OnEnter runs the enter hook, if any.
func (a *Action) OnEnter(ws, goalState world.State) {
	if a.def.OnEnter != nil {
		a.def.OnEnter(ws, goalState)
	}
}

// OnExit runs the exit hook, if any.
func (a *Action) OnExit(ws, goalState world.State) {
	if a.def.OnExit != nil {
		a.def.OnExit(ws, goalState)
	}
}

// OnFailure runs the failure hook, if any.
func (a *Action) OnFailure(ws, goalState world.State) {
	if a.def.OnFailure != nil {
		a.def.OnFailure(ws, goalState)
	}
}

func (a *Action) String() string { return a.def.Name }
