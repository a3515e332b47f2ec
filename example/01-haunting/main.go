// Package main demonstrates the minimal planning loop: a two-action chain
// driven by a Director until the goal is satisfied.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/planner"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

func main() {
	// 1. The world: a restless spirit that is not yet undead.
	ws := world.New()
	ws.Set("is_undead", false)
	ws.Set("is_haunting", false)

	// 2. Actions: hauntings require undeath first, and only the living
	// can become undead.
	becomeUndead := action.MustNew(action.Definition{
		Name: "BecomeUndead",
		Preconditions: map[string]action.Value{
			"is_undead": action.Literal(false),
		},
		Effects: map[string]action.Value{
			"is_undead": action.Literal(true),
		},
	})
	haunt := action.MustNew(action.Definition{
		Name: "Haunt",
		Preconditions: map[string]action.Value{
			"is_undead": action.Literal(true),
		},
		Effects: map[string]action.Value{
			"is_haunting": action.Literal(true),
		},
	})

	// 3. The goal.
	haunting := goal.MustNew(goal.Definition{
		Name:  "haunt_the_manor",
		State: world.State{"is_haunting": true},
	})

	// 4. Assemble the director.
	logConfig := logging.DefaultConfig()
	logConfig.Level = "debug"
	director, err := application.NewDirector(application.DirectorConfig{
		World:   ws,
		Planner: planner.New(ws, []*action.Action{becomeUndead, haunt}),
		Goals:   []*goal.Goal{haunting},
		Logger:  logging.New(logConfig),
	})
	if err != nil {
		log.Fatal(err)
	}

	// 5. Tick until there is nothing left to plan for.
	ctx := context.Background()
	for tick := 0; tick < 10; tick++ {
		if _, err := director.Update(ctx); err != nil {
			if errors.Is(err, application.ErrNoPlanFound) {
				break
			}
			log.Fatal(err)
		}
	}

	fmt.Println("=== Haunting Example ===")
	fmt.Printf("is_undead: %v\n", ws.Get("is_undead"))
	fmt.Printf("is_haunting: %v\n", ws.Get("is_haunting"))
}
