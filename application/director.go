// Package application orchestrates goal selection, planning, and plan
// execution over a shared world state.
package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/search"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

var (
	// ErrNoWorld indicates the director was configured without a world state.
	ErrNoWorld = errors.New("director requires a world state")

	// ErrNoPlanner indicates the director was configured without a planner.
	ErrNoPlanner = errors.New("director requires a planner")

	// ErrNoGoals indicates the director was configured without goals.
	ErrNoGoals = errors.New("director requires at least one goal")

	// ErrNoPlanFound indicates no relevant, unsatisfied goal yielded a plan
	// this tick. The director retries from scratch on the next tick.
	ErrNoPlanFound = errors.New("no plan found for any relevant goal")
)

// PlanFinder produces plans for goal states.
type PlanFinder interface {
	FindPlan(goalState world.State, opts ...plan.Option) (*plan.Plan, error)
}

// DirectorConfig configures a Director.
type DirectorConfig struct {
	// World is the shared mutable world state (required).
	World world.State

	// Planner computes plans against World (required).
	Planner PlanFinder

	// Goals are the candidate goals, ranked by relevance each tick
	// (required, at least one).
	Goals []*goal.Goal

	// Logger receives structured execution logs. Nil disables logging.
	Logger *bolt.Logger

	// Telemetry records planning and execution metrics. Nil disables it.
	Telemetry *telemetry.Recorder

	// Observer, when set, receives plan execution events in addition to
	// the director's own logging.
	Observer plan.Observer
}

// Director selects the most relevant unsatisfied goal, requests a plan for
// it, and drives that plan one poll per Update call. When the active plan
// reaches a terminal status the director discards it and re-derives from
// scratch on the next tick; there is no mid-plan preemption.
type Director struct {
	world     world.State
	planner   PlanFinder
	goals     []*goal.Goal
	logger    *bolt.Logger
	telemetry *telemetry.Recorder
	observer  plan.Observer

	active     *plan.Plan
	activeGoal *goal.Goal
	tracker    *statemachine.Tracker
}

// NewDirector validates the configuration and returns a director.
func NewDirector(config DirectorConfig) (*Director, error) {
	if config.World == nil {
		return nil, ErrNoWorld
	}
	if config.Planner == nil {
		return nil, ErrNoPlanner
	}
	if len(config.Goals) == 0 {
		return nil, ErrNoGoals
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Director{
		world:     config.World,
		planner:   config.Planner,
		goals:     config.Goals,
		logger:    logger,
		telemetry: config.Telemetry,
		observer:  config.Observer,
	}, nil
}

// World returns the director's world state.
func (d *Director) World() world.State { return d.world }

// ActivePlan returns the plan currently being executed, if any.
func (d *Director) ActivePlan() *plan.Plan { return d.active }

// ActiveGoal returns the goal the active plan serves, if any.
func (d *Director) ActiveGoal() *goal.Goal { return d.activeGoal }

// Update runs a single tick: if no plan is active it selects a goal and
// plans for it, then advances the active plan by one poll. It returns the
// plan status after the poll. ErrNoPlanFound is returned when every goal is
// irrelevant, already satisfied, or unreachable this tick.
func (d *Director) Update(ctx context.Context) (plan.Status, error) {
	if d.active == nil {
		if err := d.selectPlan(ctx); err != nil {
			return "", err
		}
	}

	status := d.active.Update()
	d.tracker.Observe(status, "plan update")

	if status.IsTerminal() {
		d.telemetry.RecordTransition(ctx, string(plan.StatusRunning), string(status))
		logging.Apply(d.logger.Debug(),
			logging.PlanID(d.active.ID()),
			logging.GoalName(d.activeGoal.Name()),
			logging.PlanStatus(status),
		).Msg("plan retired")
		d.active = nil
		d.activeGoal = nil
		d.tracker = nil
	}
	return status, nil
}

// Cancel requests cooperative cancellation of the active plan, if any. It
// is honored at the next Update.
func (d *Director) Cancel() {
	if d.active != nil {
		d.active.Cancel()
	}
}

// selectPlan scans goals by descending relevance and activates the first
// one that is unsatisfied and yields a plan. Satisfied goals are skipped
// without invoking the planner.
func (d *Director) selectPlan(ctx context.Context) error {
	for _, g := range d.rankedGoals() {
		if g.IsSatisfied(d.world) {
			continue
		}

		planCtx, span := d.telemetry.StartPlanning(ctx, g.Name())
		start := time.Now()
		p, err := d.planner.FindPlan(g.State(), d.planOptions()...)
		steps := 0
		if p != nil {
			steps = p.Len()
		}
		d.telemetry.RecordPlanning(planCtx, g.Name(), time.Since(start), steps, err)
		span.End()

		if errors.Is(err, search.ErrPathNotFound) {
			logging.Apply(d.logger.Debug(), logging.GoalName(g.Name())).
				Msg("goal unreachable, skipping")
			continue
		}
		if err != nil {
			return err
		}

		tracker, err := statemachine.NewTracker(p.ID())
		if err != nil {
			return err
		}
		tracker.Begin("goal " + g.Name())

		d.active = p
		d.activeGoal = g
		d.tracker = tracker
		logging.Apply(d.logger.Info(),
			logging.PlanID(p.ID()),
			logging.GoalName(g.Name()),
		).Int64("steps", int64(p.Len())).Msg("plan activated")
		return nil
	}
	return ErrNoPlanFound
}

// rankedGoals returns the goals with positive relevance in descending
// relevance order. The sort is stable, so declaration order breaks ties.
func (d *Director) rankedGoals() []*goal.Goal {
	type ranked struct {
		goal      *goal.Goal
		relevance float64
	}
	candidates := make([]ranked, 0, len(d.goals))
	for _, g := range d.goals {
		r := g.Relevance(d.world)
		if r <= 0 {
			continue
		}
		candidates = append(candidates, ranked{goal: g, relevance: r})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].relevance > candidates[j].relevance
	})
	out := make([]*goal.Goal, len(candidates))
	for i, c := range candidates {
		out[i] = c.goal
	}
	return out
}

func (d *Director) planOptions() []plan.Option {
	observers := []plan.Observer{logging.NewPlanObserver(d.logger)}
	if d.observer != nil {
		observers = append(observers, d.observer)
	}
	if d.telemetry != nil {
		observers = append(observers, telemetryObserver{recorder: d.telemetry})
	}
	return []plan.Option{plan.WithObserver(multiObserver(observers))}
}

// multiObserver fans plan events out to several observers.
type multiObserver []plan.Observer

func (m multiObserver) StepEntered(planID string, index int, step plan.Step) {
	for _, o := range m {
		o.StepEntered(planID, index, step)
	}
}

func (m multiObserver) StepCompleted(planID string, index int, step plan.Step) {
	for _, o := range m {
		o.StepCompleted(planID, index, step)
	}
}

func (m multiObserver) StepFailed(planID string, index int, step plan.Step) {
	for _, o := range m {
		o.StepFailed(planID, index, step)
	}
}

func (m multiObserver) PlanFinished(planID string, status plan.Status) {
	for _, o := range m {
		o.PlanFinished(planID, status)
	}
}

// telemetryObserver counts completed steps.
type telemetryObserver struct {
	recorder *telemetry.Recorder
}

func (t telemetryObserver) StepEntered(string, int, plan.Step) {}

func (t telemetryObserver) StepCompleted(_ string, _ int, step plan.Step) {
	t.recorder.RecordStep(context.Background(), step.Action.Name())
}

func (t telemetryObserver) StepFailed(string, int, plan.Step) {}

func (t telemetryObserver) PlanFinished(string, plan.Status) {}
