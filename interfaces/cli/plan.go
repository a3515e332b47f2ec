package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/planner"
	"github.com/felixgeelhaar/goap-go/domain/search"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/config"
)

// planOptions holds options for the plan command.
type planOptions struct {
	scenarioPath string
	goalName     string
}

// newPlanCmd creates the plan command.
func (a *App) newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan [goal]",
		Short: "Compute a plan for a scenario goal without executing it",
		Long: `Compute and print the plan for a goal in the scenario file.

Without a goal argument the most relevant unsatisfied goal is planned for.

Examples:
  # Plan for the most relevant goal
  goap plan -c scenario.yaml

  # Plan for a specific goal by name
  goap plan -c scenario.yaml haunt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.goalName = args[0]
			}
			return a.printPlan(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenarioPath, "config", "c", "", "Path to scenario file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// printPlan computes a plan and prints its steps.
func (a *App) printPlan(opts *planOptions) error {
	ws, actions, goals, err := loadScenario(opts.scenarioPath)
	if err != nil {
		return err
	}

	g, err := pickGoal(ws, goals, opts.goalName)
	if err != nil {
		return err
	}

	p := planner.New(ws, actions)
	result, err := p.FindPlan(g.State())
	if errors.Is(err, search.ErrPathNotFound) {
		return fmt.Errorf("goal %q is unreachable from the current world", g.Name())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Goal: %s\n", g.Name())
	fmt.Fprintf(a.stdout, "Steps: %d\n", result.Len())
	for i, step := range result.Steps() {
		fmt.Fprintf(a.stdout, "  %d. %s\n", i+1, step.Action.Name())
		for _, key := range step.Action.ServiceKeys() {
			fmt.Fprintf(a.stdout, "     %s = %v\n", key, step.Services.Get(key))
		}
	}
	return nil
}

// loadScenario loads and materializes a scenario file.
func loadScenario(path string) (world.State, []*action.Action, []*goal.Goal, error) {
	loader := config.NewLoader()
	scenario, err := loader.LoadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	ws, actions, goals, err := scenario.Build()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	return ws, actions, goals, nil
}

// pickGoal selects the named goal, or the most relevant unsatisfied one.
func pickGoal(ws world.State, goals []*goal.Goal, name string) (*goal.Goal, error) {
	if name != "" {
		for _, g := range goals {
			if g.Name() == name {
				return g, nil
			}
		}
		return nil, fmt.Errorf("goal %q not found in scenario", name)
	}

	candidates := make([]*goal.Goal, 0, len(goals))
	for _, g := range goals {
		if g.Relevance(ws) > 0 && !g.IsSatisfied(ws) {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no relevant unsatisfied goal in scenario")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Relevance(ws) > candidates[j].Relevance(ws)
	})
	return candidates[0], nil
}
