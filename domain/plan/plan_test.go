package plan

import (
	"testing"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// recordingObserver captures plan events in order.
type recordingObserver struct {
	events []string
}

func (o *recordingObserver) StepEntered(_ string, index int, step Step) {
	o.events = append(o.events, "entered:"+step.Action.Name())
}

func (o *recordingObserver) StepCompleted(_ string, index int, step Step) {
	o.events = append(o.events, "completed:"+step.Action.Name())
}

func (o *recordingObserver) StepFailed(_ string, index int, step Step) {
	o.events = append(o.events, "failed:"+step.Action.Name())
}

func (o *recordingObserver) PlanFinished(_ string, status Status) {
	o.events = append(o.events, "finished:"+string(status))
}

func instantAction(t *testing.T, name, key string, value any) *action.Action {
	t.Helper()
	return action.MustNew(action.Definition{
		Name:    name,
		Effects: map[string]action.Value{key: action.Literal(value)},
	})
}

func TestUpdateAdvancesOneStepPerCall(t *testing.T) {
	t.Parallel()

	ws := world.New()
	p := New(ws, []Step{
		{Action: instantAction(t, "First", "a", true)},
		{Action: instantAction(t, "Second", "b", true)},
	})

	if got := p.Update(); got != StatusRunning {
		t.Fatalf("first Update() = %v, want running", got)
	}
	if ws.Get("a") != true {
		t.Error("first step effects not committed after first Update")
	}
	if ws.Has("b") {
		t.Error("second step ran in the same Update call")
	}

	if got := p.Update(); got != StatusSuccess {
		t.Fatalf("second Update() = %v, want success", got)
	}
	if ws.Get("b") != true {
		t.Error("second step effects not committed")
	}
}

func TestUpdateEmptyPlanSucceedsImmediately(t *testing.T) {
	t.Parallel()

	p := New(world.New(), nil)
	if got := p.Update(); got != StatusSuccess {
		t.Errorf("Update() = %v, want success", got)
	}
}

func TestUpdateTerminalStatusLatches(t *testing.T) {
	t.Parallel()

	p := New(world.New(), nil)
	p.Update()
	if got := p.Update(); got != StatusSuccess {
		t.Errorf("Update() after terminal = %v, want success", got)
	}
}

func TestUpdatePollsRunningAction(t *testing.T) {
	t.Parallel()

	ws := world.New()
	ticks := 0
	slow := action.MustNew(action.Definition{
		Name:    "Slow",
		Effects: map[string]action.Value{"done": action.Literal(true)},
		StatusFunc: func(_, _ world.State) action.Status {
			ticks++
			if ticks < 3 {
				return action.StatusRunning
			}
			return action.StatusSuccess
		},
	})

	p := New(ws, []Step{{Action: slow}})
	if got := p.Update(); got != StatusRunning {
		t.Fatalf("Update() 1 = %v, want running", got)
	}
	if ws.Has("done") {
		t.Error("effects committed while the step is still running")
	}
	if got := p.Update(); got != StatusRunning {
		t.Fatalf("Update() 2 = %v, want running", got)
	}
	if got := p.Update(); got != StatusSuccess {
		t.Fatalf("Update() 3 = %v, want success", got)
	}
	if ws.Get("done") != true {
		t.Error("effects not committed on successful exit")
	}
}

func TestUpdateEnterPreconditionFailureAbortsPlan(t *testing.T) {
	t.Parallel()

	ws := world.New()
	blocked := action.MustNew(action.Definition{
		Name:    "Blocked",
		Effects: map[string]action.Value{"a": action.Literal(true)},
		CheckPrecondition: func(_ world.State, mode action.Mode) bool {
			return mode != action.ModeExecution
		},
	})
	never := instantAction(t, "Never", "b", true)

	observer := &recordingObserver{}
	p := New(ws, []Step{{Action: blocked}, {Action: never}}, WithObserver(observer))

	if got := p.Update(); got != StatusFailure {
		t.Fatalf("Update() = %v, want failure", got)
	}
	if ws.Has("a") || ws.Has("b") {
		t.Error("no effects may be committed after an enter failure")
	}

	want := []string{"failed:Blocked", "finished:failure"}
	if len(observer.events) != len(want) {
		t.Fatalf("events = %v, want %v", observer.events, want)
	}
	for i := range want {
		if observer.events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, observer.events[i], want[i])
		}
	}
}

func TestUpdateRuntimeFailureInvokesFailureHook(t *testing.T) {
	t.Parallel()

	failureHookCalled := false
	failing := action.MustNew(action.Definition{
		Name:    "Failing",
		Effects: map[string]action.Value{"a": action.Literal(true)},
		StatusFunc: func(_, _ world.State) action.Status {
			return action.StatusFailure
		},
		OnFailure: func(_, _ world.State) {
			failureHookCalled = true
		},
	})

	ws := world.New()
	p := New(ws, []Step{{Action: failing}})
	if got := p.Update(); got != StatusFailure {
		t.Fatalf("Update() = %v, want failure", got)
	}
	if !failureHookCalled {
		t.Error("OnFailure hook not invoked on runtime failure")
	}
	if ws.Has("a") {
		t.Error("effects committed despite failure")
	}
}

func TestUpdateCommitsServiceValues(t *testing.T) {
	t.Parallel()

	equip := action.MustNew(action.Definition{
		Name:    "Equip",
		Effects: map[string]action.Value{"weapon": action.Service()},
	})

	ws := world.New()
	p := New(ws, []Step{{
		Action:   equip,
		Services: world.State{"weapon": "axe"},
	}})

	if got := p.Update(); got != StatusSuccess {
		t.Fatalf("Update() = %v, want success", got)
	}
	if got := ws.Get("weapon"); got != "axe" {
		t.Errorf("world[weapon] = %v, want axe (bound service value)", got)
	}
}

func TestUpdatePlanOnlyActionCommitsNothing(t *testing.T) {
	t.Parallel()

	symbolic := action.MustNew(action.Definition{
		Name:     "Symbolic",
		PlanOnly: true,
		Effects:  map[string]action.Value{"virtual": action.Literal(true)},
	})

	ws := world.New()
	p := New(ws, []Step{{Action: symbolic}})
	if got := p.Update(); got != StatusSuccess {
		t.Fatalf("Update() = %v, want success", got)
	}
	if ws.Has("virtual") {
		t.Error("plan-only effects must never reach the world")
	}
}

func TestCancelHonoredAtNextUpdate(t *testing.T) {
	t.Parallel()

	failureHookCalled := false
	slow := action.MustNew(action.Definition{
		Name:    "Slow",
		Effects: map[string]action.Value{"a": action.Literal(true)},
		StatusFunc: func(_, _ world.State) action.Status {
			return action.StatusRunning
		},
		OnFailure: func(_, _ world.State) {
			failureHookCalled = true
		},
	})

	ws := world.New()
	p := New(ws, []Step{{Action: slow}})
	if got := p.Update(); got != StatusRunning {
		t.Fatalf("Update() = %v, want running", got)
	}

	p.Cancel()
	if got := p.Status(); got != StatusRunning {
		t.Errorf("Cancel must not take effect before the next Update, got %v", got)
	}
	if got := p.Update(); got != StatusCancelled {
		t.Fatalf("Update() after Cancel = %v, want cancelled", got)
	}
	if !failureHookCalled {
		t.Error("current step's failure hook not invoked on cancellation")
	}
}

func TestObserverEventOrder(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	ws := world.New()
	p := New(ws, []Step{
		{Action: instantAction(t, "A", "a", true)},
		{Action: instantAction(t, "B", "b", true)},
	}, WithObserver(observer))

	for p.Update() == StatusRunning {
	}

	want := []string{
		"entered:A", "completed:A",
		"entered:B", "completed:B",
		"finished:success",
	}
	if len(observer.events) != len(want) {
		t.Fatalf("events = %v, want %v", observer.events, want)
	}
	for i := range want {
		if observer.events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, observer.events[i], want[i])
		}
	}
}

func TestWithID(t *testing.T) {
	t.Parallel()

	p := New(world.New(), nil, WithID("fixed-id"))
	if p.ID() != "fixed-id" {
		t.Errorf("ID() = %s, want fixed-id", p.ID())
	}
}

func TestCurrentStep(t *testing.T) {
	t.Parallel()

	p := New(world.New(), []Step{{Action: instantAction(t, "Only", "a", true)}})

	step, ok := p.CurrentStep()
	if !ok || step.Action.Name() != "Only" {
		t.Errorf("CurrentStep() = %v, %v, want Only, true", step, ok)
	}

	p.Update()
	if _, ok := p.CurrentStep(); ok {
		t.Error("CurrentStep() should report false after the plan finished")
	}
}
