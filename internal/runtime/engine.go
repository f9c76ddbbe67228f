// Package runtime is the execution engine: it advances a RunState one
// transition at a time against an immutable Machine.
//
// The engine performs no I/O and no logging. Both functions take the
// description and the state explicitly, so a state may be serialized by the
// caller between any two steps.
package runtime

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Result describes what a successful Step did.
type Result struct {
	// Rule is the index of the applied transition, or -1 when none matched.
	Rule int

	// Halted is true when the run halted during this step.
	Halted bool

	// Reason is set when Halted is true.
	Reason domain.HaltReason
}

// Initialize builds the starting state for m.
// Each tape holds the characters of the matching input with surrounding
// whitespace stripped; missing inputs leave their tape empty and extra inputs are ignored.
func Initialize(m *domain.Machine, inputs []string) *domain.RunState {
	s := &domain.RunState{
		State: m.InitialState,
		Tapes: make([][]string, m.TapeCount),
		Heads: make([]int, m.TapeCount),
	}
	for i := range s.Tapes {
		s.Tapes[i] = []string{}
		if i < len(inputs) {
			for _, r := range strings.TrimSpace(inputs[i]) {
				s.Tapes[i] = append(s.Tapes[i], string(r))
			}
		}
	}
	return s
}

// Read returns the symbol under each head. Cells past the end of a tape
// read as the blank symbol without extending the tape.
func Read(m *domain.Machine, s *domain.RunState) []string {
	symbols := make([]string, len(s.Tapes))
	for i, tape := range s.Tapes {
		if h := s.Heads[i]; h < len(tape) {
			symbols[i] = tape[h]
		} else {
			symbols[i] = m.BlankSymbol
		}
	}
	return symbols
}

// Match returns the index of the first transition, in declaration order,
// that fires for the current state and symbols, or -1.
func Match(m *domain.Machine, state string, symbols []string) int {
	for i := range m.Transitions {
		if m.Transitions[i].Matches(state, symbols) {
			return i
		}
	}
	return -1
}

// Step applies one transition to s in place.
// It fails with domain.ErrAlreadyHalted, leaving s untouched, when s is halted.
// When no transition matches, s is only marked halted: state, tapes, heads
// and step count are kept.
func Step(m *domain.Machine, s *domain.RunState) (Result, error) {
	if s.Halted {
		return Result{Rule: -1}, domain.ErrAlreadyHalted
	}

	idx := Match(m, s.State, Read(m, s))
	if idx < 0 {
		s.Halted = true
		return Result{Rule: -1, Halted: true, Reason: domain.HaltNoTransition}, nil
	}

	t := &m.Transitions[idx]
	s.State = t.To
	for i := range s.Tapes {
		cover(s, i, m.BlankSymbol)
		s.Tapes[i][s.Heads[i]] = t.Write[i]

		switch t.Moves[i] {
		case domain.MoveRight:
			s.Heads[i]++
		case domain.MoveLeft:
			if s.Heads[i] > 0 {
				s.Heads[i]--
			}
		}
		cover(s, i, m.BlankSymbol)
	}
	s.StepCount++

	res := Result{Rule: idx}
	if m.IsFinal(s.State) {
		s.Halted = true
		res.Halted = true
		res.Reason = domain.HaltFinalState
	}
	return res, nil
}

// cover grows tape i with blanks until its head is in range.
func cover(s *domain.RunState, i int, blank string) {
	for s.Heads[i] >= len(s.Tapes[i]) {
		s.Tapes[i] = append(s.Tapes[i], blank)
	}
}
