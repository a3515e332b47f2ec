package logging

import (
	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/goap-go/domain/plan"
)

// PlanObserver logs plan execution events through a bolt logger. It
// implements plan.Observer.
type PlanObserver struct {
	logger *bolt.Logger
}

// NewPlanObserver returns an observer writing to logger. A nil logger
// discards everything.
func NewPlanObserver(logger *bolt.Logger) *PlanObserver {
	if logger == nil {
		logger = Nop()
	}
	return &PlanObserver{logger: logger}
}

func (o *PlanObserver) StepEntered(planID string, index int, step plan.Step) {
	Apply(o.logger.Debug(), PlanID(planID), StepIndex(index), ActionName(step.Action.Name())).
		Msg("step entered")
}

func (o *PlanObserver) StepCompleted(planID string, index int, step plan.Step) {
	Apply(o.logger.Debug(), PlanID(planID), StepIndex(index), ActionName(step.Action.Name())).
		Msg("step completed")
}

func (o *PlanObserver) StepFailed(planID string, index int, step plan.Step) {
	Apply(o.logger.Warn(), PlanID(planID), StepIndex(index), ActionName(step.Action.Name())).
		Msg("step failed")
}

func (o *PlanObserver) PlanFinished(planID string, status plan.Status) {
	Apply(o.logger.Info(), PlanID(planID), PlanStatus(status)).
		Msg("plan finished")
}
