package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
)

func machine() *domain.Machine {
	r := []domain.Move{domain.MoveRight}
	return &domain.Machine{
		Name:         "m",
		TapeCount:    1,
		BlankSymbol:  "_",
		InitialState: "q0",
		FinalStates:  []string{"acc"},
		Transitions: []domain.Transition{
			{From: "q0", Read: []string{"a"}, To: `say "hi"`, Write: []string{"b"}, Moves: r},
			{From: `say "hi"`, Read: []string{"_"}, To: "acc", Write: []string{"_"}, Moves: []domain.Move{domain.MoveNone}},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.RunOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`s0(("q0"))`,
				`s1["say #quot;hi#quot;"]`,
				`s2((("acc")))`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Edge Labels",
			contains: []string{
				`s0 -- "a/b,R" --> s1`,
				`s1 -- "_/_,N" --> s2`,
			},
		},
		{
			name:    "Overlay Current",
			overlay: &graph.RunOverlay{Visited: []string{"q0", "q0"}, Current: `say "hi"`},
			contains: []string{
				"class s0 visited;",
				"class s1 current;",
			},
		},
		{
			name:     "Overlay Rejected",
			overlay:  &graph.RunOverlay{Current: "q0", Halted: true},
			contains: []string{"class s0 rejected;"},
		},
		{
			name:     "Overlay Accepted",
			overlay:  graph.OverlayFromRun(&domain.RunState{State: "acc", Halted: true}),
			contains: []string{"class s2 current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(machine(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
			if strings.Count(got, "class s0 visited;") > 1 {
				t.Errorf("visited states must be styled once")
			}
		})
	}
}

func TestEdgeLabel_MultiTape(t *testing.T) {
	tr := domain.Transition{
		From: "q", Read: []string{"1", "_"}, To: "q",
		Write: []string{"1", "1"}, Moves: []domain.Move{domain.MoveRight, domain.MoveLeft},
	}
	if got, want := graph.EdgeLabel(tr), "1/1,R ; _/1,L"; got != want {
		t.Errorf("EdgeLabel() = %q, want %q", got, want)
	}
}
