package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderTapes(t *testing.T) {
	s := &domain.RunState{
		State: "q0",
		Tapes: [][]string{{"a", "b"}, {"x"}},
		Heads: []int{1, 3},
	}
	got := RenderTapes(s, "_", termenv.Ascii)
	assert.Equal(t, "T1 | a [b]|\nT2 | x [_]|\n", got)
}

func TestStatusLine(t *testing.T) {
	m := &domain.Machine{FinalStates: []string{"acc"}}
	got := StatusLine(m, &domain.RunState{State: "q1", Halted: true, StepCount: 4}, termenv.Ascii)
	assert.Equal(t, "step 4 · state q1 · rejected", got)
}

func TestProfile_NonTerminal(t *testing.T) {
	assert.Equal(t, termenv.Ascii, Profile(&bytes.Buffer{}))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}

func TestMachineMarkdown(t *testing.T) {
	m := &domain.Machine{
		Name:         "Inverter",
		Description:  "Flips bits.",
		TapeCount:    1,
		BlankSymbol:  "_",
		InitialState: "flip",
		FinalStates:  []string{"done"},
		Transitions: []domain.Transition{
			{From: "flip", Read: []string{"0"}, To: "flip", Write: []string{"1"}, Moves: []domain.Move{domain.MoveRight}},
		},
		InputSpec: []domain.InputSpec{{Example: "0110"}},
	}
	md := MachineMarkdown(m)
	assert.True(t, strings.HasPrefix(md, "# Inverter\n\nFlips bits."))
	assert.Contains(t, md, "| Alphabet | `_`, `0`, `1` |")
	assert.Contains(t, md, "| 0 | `flip` | `0` | `flip` | `1` | R |")
	assert.Contains(t, md, "- `0110`")

	render := NewRenderer(80)
	out, err := render(md)
	assert.NoError(t, err)
	assert.Contains(t, out, "Inverter")
}
