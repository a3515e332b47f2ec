// Package config loads planning scenarios from YAML files: a starting
// world state plus declarative goal and action sets.
package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

var (
	// ErrConfigNotFound indicates the scenario file does not exist.
	ErrConfigNotFound = errors.New("scenario file not found")

	// ErrInvalidFormat indicates the scenario file could not be parsed.
	ErrInvalidFormat = errors.New("invalid scenario format")

	// ErrMissingEnvVar indicates a required environment variable is unset.
	ErrMissingEnvVar = errors.New("missing environment variable")

	// ErrValidationFailed indicates the scenario failed validation.
	ErrValidationFailed = errors.New("scenario validation failed")
)

// Scenario is the file-level schema: a named world with goals and actions.
type Scenario struct {
	Name    string         `yaml:"name"`
	World   map[string]any `yaml:"world"`
	Goals   []GoalConfig   `yaml:"goals"`
	Actions []ActionConfig `yaml:"actions"`
}

// GoalConfig declares a goal.
type GoalConfig struct {
	Name     string         `yaml:"name"`
	Priority float64        `yaml:"priority"`
	State    map[string]any `yaml:"state"`
}

// ActionConfig declares an action. Hooks and procedural preconditions are
// code-level concerns and cannot be expressed in a scenario file.
type ActionConfig struct {
	Name          string                 `yaml:"name"`
	Cost          float64                `yaml:"cost"`
	Precedence    float64                `yaml:"precedence"`
	PlanOnly      bool                   `yaml:"plan_only"`
	Effects       map[string]ValueConfig `yaml:"effects"`
	Preconditions map[string]ValueConfig `yaml:"preconditions"`
}

// ValueConfig is an effect or precondition value. A plain scalar is a
// literal; the mappings {service: true} and {ref: key} select the tagged
// variants.
type ValueConfig struct {
	value action.Value
}

// UnmarshalYAML decodes either a scalar literal or a tagged mapping.
func (v *ValueConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var tagged struct {
			Service bool   `yaml:"service"`
			Ref     string `yaml:"ref"`
		}
		if err := node.Decode(&tagged); err != nil {
			return err
		}
		switch {
		case tagged.Service && tagged.Ref != "":
			return fmt.Errorf("%w: value cannot be both service and ref", ErrInvalidFormat)
		case tagged.Service:
			v.value = action.Service()
			return nil
		case tagged.Ref != "":
			v.value = action.Reference(tagged.Ref)
			return nil
		default:
			return fmt.Errorf("%w: mapping value needs service or ref", ErrInvalidFormat)
		}
	}

	var literal any
	if err := node.Decode(&literal); err != nil {
		return err
	}
	v.value = action.Literal(literal)
	return nil
}

// Value returns the decoded action value.
func (v ValueConfig) Value() action.Value { return v.value }

// Validate checks the scenario for structural problems the type system
// cannot catch.
func (s *Scenario) Validate() error {
	if len(s.Goals) == 0 {
		return fmt.Errorf("%w: no goals declared", ErrValidationFailed)
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("%w: no actions declared", ErrValidationFailed)
	}
	seen := make(map[string]bool, len(s.Actions))
	for _, a := range s.Actions {
		if a.Name == "" {
			return fmt.Errorf("%w: action without a name", ErrValidationFailed)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate action %q", ErrValidationFailed, a.Name)
		}
		seen[a.Name] = true
	}
	for _, g := range s.Goals {
		if g.Name == "" {
			return fmt.Errorf("%w: goal without a name", ErrValidationFailed)
		}
	}
	return nil
}

// Build materializes the scenario into domain values. Action and goal
// construction errors are wrapped with the declaring entry's name.
func (s *Scenario) Build() (world.State, []*action.Action, []*goal.Goal, error) {
	ws := world.New()
	for key, value := range s.World {
		ws.Set(key, value)
	}

	actions := make([]*action.Action, 0, len(s.Actions))
	for _, ac := range s.Actions {
		def := action.Definition{
			Name:       ac.Name,
			Cost:       ac.Cost,
			Precedence: ac.Precedence,
			PlanOnly:   ac.PlanOnly,
		}
		if len(ac.Effects) > 0 {
			def.Effects = make(map[string]action.Value, len(ac.Effects))
			for key, vc := range ac.Effects {
				def.Effects[key] = vc.Value()
			}
		}
		if len(ac.Preconditions) > 0 {
			def.Preconditions = make(map[string]action.Value, len(ac.Preconditions))
			for key, vc := range ac.Preconditions {
				def.Preconditions[key] = vc.Value()
			}
		}
		a, err := action.New(def)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("action %q: %w", ac.Name, err)
		}
		actions = append(actions, a)
	}

	goals := make([]*goal.Goal, 0, len(s.Goals))
	for _, gc := range s.Goals {
		state := world.New()
		for key, value := range gc.State {
			state.Set(key, value)
		}
		g, err := goal.New(goal.Definition{
			Name:     gc.Name,
			Priority: gc.Priority,
			State:    state,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("goal %q: %w", gc.Name, err)
		}
		goals = append(goals, g)
	}

	return ws, actions, goals, nil
}
