package action

import "errors"

// Validation errors reported by New.
var (
	// ErrNoName indicates the definition is missing a name.
	ErrNoName = errors.New("action requires a name")

	// ErrNoEffects indicates the definition declares no effects. An action
	// without effects can never be selected by the planner.
	ErrNoEffects = errors.New("action declares no effects")

	// ErrServicePrecondition indicates a service marker was used as a
	// precondition value. Services are only valid in effects.
	ErrServicePrecondition = errors.New("preconditions cannot be services")

	// ErrReferenceEffect indicates a reference was used as an effect value.
	// References are only valid in preconditions.
	ErrReferenceEffect = errors.New("effects cannot be references")

	// ErrUnknownReference indicates a precondition references a key that is
	// not a declared effect of the same action.
	ErrUnknownReference = errors.New("reference names an undeclared effect")
)
