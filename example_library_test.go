package turing_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
)

// ExampleNew_library demonstrates how to use the Simulator purely as a Go library,
// building the description from Go values instead of YAML text.
func ExampleNew_library() {
	right := []domain.Move{domain.MoveRight}
	loader, err := memory.NewFromMachines(&domain.Machine{
		Name:         "Unary Successor",
		TapeCount:    1,
		BlankSymbol:  "_",
		InitialState: "scan",
		FinalStates:  []string{"done"},
		Transitions: []domain.Transition{
			{From: "scan", Read: []string{"1"}, To: "scan", Write: []string{"1"}, Moves: right},
			{From: "scan", Read: []string{"_"}, To: "done", Write: []string{"1"}, Moves: right},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	sim, err := turing.New(loader)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, _ := sim.Start(ctx, "Unary Successor", []string{"111"})
	final, err := sim.Run(ctx, "Unary Successor", state, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(final.Tapes[0], final.Heads[0], final.Halted)

	// Output:
	// [1 1 1 1 _] 4 true
}
