package action

import "fmt"

// Kind discriminates the tagged effect/precondition value variants.
type Kind uint8

const (
	// KindLiteral is a fixed concrete value.
	KindLiteral Kind = iota
	// KindService marks an effect whose value is resolved at plan time from
	// the goal that demanded it, rather than fixed by the action.
	KindService
	// KindReference marks a precondition that aliases the resolved value of
	// one of the action's own effects.
	KindReference
)

// Value is the tagged variant carried by effects and preconditions:
// Literal(v) | Service() | Reference(key). Effects may be literals or
// services; preconditions may be literals or references. New enforces
// this at construction time.
type Value struct {
	Kind    Kind
	Literal any
	Ref     string
}

// Literal returns a fixed concrete value.
func Literal(v any) Value {
	return Value{Kind: KindLiteral, Literal: v}
}

// Service returns the plan-time service marker.
func Service() Value {
	return Value{Kind: KindService}
}

// Reference returns a precondition value aliasing the named effect.
func Reference(key string) Value {
	return Value{Kind: KindReference, Ref: key}
}

func (v Value) String() string {
	switch v.Kind {
	case KindService:
		return "<service>"
	case KindReference:
		return fmt.Sprintf("<ref %s>", v.Ref)
	default:
		return fmt.Sprintf("%v", v.Literal)
	}
}
