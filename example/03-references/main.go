// Package main demonstrates reference-tagged preconditions: a precondition
// that demands whatever value one of the action's own effects resolved to,
// forwarding it to the upstream action that satisfies it.
package main

import (
	"fmt"
	"log"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/planner"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func main() {
	ws := world.New()
	ws.Set("delivered_to", "nowhere")
	ws.Set("route_planned_to", "nowhere")

	// Deliver can reach any destination, but only along a route that was
	// planned to that same destination.
	deliver := action.MustNew(action.Definition{
		Name: "Deliver",
		Effects: map[string]action.Value{
			"delivered_to": action.Service(),
		},
		Preconditions: map[string]action.Value{
			"route_planned_to": action.Reference("delivered_to"),
		},
	})

	// PlanRoute produces a route to any destination.
	planRoute := action.MustNew(action.Definition{
		Name: "PlanRoute",
		Effects: map[string]action.Value{
			"route_planned_to": action.Service(),
		},
	})

	p := planner.New(ws, []*action.Action{deliver, planRoute})
	result, err := p.FindPlan(world.State{"delivered_to": "castle"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== References Example ===")
	for i, step := range result.Steps() {
		fmt.Printf("%d. %s\n", i+1, step.Action.Name())
		for _, key := range step.Action.ServiceKeys() {
			fmt.Printf("   %s = %v\n", key, step.Services.Get(key))
		}
	}

	for result.Update() == plan.StatusRunning {
	}
	fmt.Printf("route_planned_to: %v\n", ws.Get("route_planned_to"))
	fmt.Printf("delivered_to: %v\n", ws.Get("delivered_to"))
}
