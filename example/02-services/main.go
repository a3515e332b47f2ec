// Package main demonstrates service-tagged effects: an action that promises
// to produce whatever value the goal demands, resolved at planning time.
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
	ws.Set("armed_with", "nothing")

	// EquipWeapon produces any weapon the goal asks for. The cost of
	// equipping depends on which weapon was demanded.
	equip := action.MustNew(action.Definition{
		Name: "EquipWeapon",
		Effects: map[string]action.Value{
			"armed_with": action.Service(),
		},
		CostFunc: func(services world.State) float64 {
			if services.Get("armed_with") == "greatsword" {
				return 5
			}
			return 1
		},
	})

	p := planner.New(ws, []*action.Action{equip})
	result, err := p.FindPlan(world.State{"armed_with": "axe"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Services Example ===")
	for i, step := range result.Steps() {
		fmt.Printf("%d. %s\n", i+1, step.Action.Name())
		for _, key := range step.Action.ServiceKeys() {
			fmt.Printf("   %s = %v\n", key, step.Services.Get(key))
		}
	}

	// Executing the plan commits the resolved service value to the world.
	for result.Update() == plan.StatusRunning {
	}
	fmt.Printf("armed_with: %v\n", ws.Get("armed_with"))
}
