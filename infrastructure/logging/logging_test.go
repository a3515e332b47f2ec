package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
)

func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})

	logger.Info().Str("component", "planner").Msg("plan computed")

	out := buf.String()
	if !strings.Contains(out, `"component"`) || !strings.Contains(out, "plan computed") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("too quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged despite warn level: %s", buf.String())
	}

	logger.Warn().Msg("audible")
	if !strings.Contains(buf.String(), "audible") {
		t.Errorf("warn not logged: %s", buf.String())
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buf})

	Apply(logger.Info(),
		PlanID("p-1"),
		GoalName("haunt"),
		ActionName("Haunt"),
		StepIndex(2),
		PlanStatus(plan.StatusRunning),
		Duration(1500*time.Millisecond),
		Err(errors.New("boom")),
	).Msg("event")

	out := buf.String()
	for _, want := range []string{
		`"plan_id"`, "p-1",
		`"goal"`, "haunt",
		`"action"`, "Haunt",
		`"step"`, `"status"`, "running",
		`"duration_ms"`, "1500",
		`"error"`, "boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestErrNilIsNoop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buf})

	Apply(logger.Info(), Err(nil)).Msg("clean")
	if strings.Contains(buf.String(), `"error"`) {
		t.Errorf("nil error produced an error field: %s", buf.String())
	}
}

func TestPlanObserverLogsEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buf})
	observer := NewPlanObserver(logger)

	step := plan.Step{Action: action.MustNew(action.Definition{
		Name:    "Haunt",
		Effects: map[string]action.Value{"is_haunting": action.Literal(true)},
	})}

	observer.StepEntered("p-1", 0, step)
	observer.StepCompleted("p-1", 0, step)
	observer.StepFailed("p-1", 0, step)
	observer.PlanFinished("p-1", plan.StatusSuccess)

	out := buf.String()
	for _, want := range []string{"step entered", "step completed", "step failed", "plan finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestPlanObserverNilLogger(t *testing.T) {
	t.Parallel()

	observer := NewPlanObserver(nil)
	// Must not panic.
	observer.PlanFinished("p-1", plan.StatusSuccess)
}
