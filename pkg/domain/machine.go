package domain

import "slices"

// InputSpec documents an expected input for a machine, e.g. as a UI placeholder.
type InputSpec struct {
	Description string `json:"description,omitempty"`
	Example     string `json:"example"`
}

// Machine is a canonical, execution-ready machine description.
// It is only produced by a successful parse and must not be mutated afterwards:
// many runs may read it concurrently.
type Machine struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	TapeCount    int          `json:"tape_count"`
	BlankSymbol  string       `json:"blank_symbol"`
	InitialState string       `json:"initial_state"`
	FinalStates  []string     `json:"final_states"`
	Transitions  []Transition `json:"transitions"`
	InputSpec    []InputSpec  `json:"input_spec,omitempty"`
}

// IsFinal reports whether state belongs to the accepting set.
func (m *Machine) IsFinal(state string) bool {
	return slices.Contains(m.FinalStates, state)
}

// States returns every control state mentioned by the description, in order of first appearance.
func (m *Machine) States() []string {
	seen := make(map[string]bool)
	var states []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			states = append(states, s)
		}
	}
	add(m.InitialState)
	for _, t := range m.Transitions {
		add(t.From)
		add(t.To)
	}
	for _, f := range m.FinalStates {
		add(f)
	}
	return states
}

// Outcome classifies a run state against this description.
func (m *Machine) Outcome(s *RunState) Outcome {
	switch {
	case !s.Halted:
		return OutcomeRunning
	case m.IsFinal(s.State):
		return OutcomeAccepted
	default:
		return OutcomeRejected
	}
}

// Outcome is the externally visible verdict of a run.
type Outcome string

const (
	OutcomeRunning  Outcome = "running"
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Symbols returns the tape alphabet: the blank followed by every symbol read
// or written by a transition, in order of first appearance.
func (m *Machine) Symbols() []string {
	seen := map[string]bool{m.BlankSymbol: true}
	symbols := []string{m.BlankSymbol}
	for _, t := range m.Transitions {
		for _, s := range slices.Concat(t.Read, t.Write) {
			if !seen[s] {
				seen[s] = true
				symbols = append(symbols, s)
			}
		}
	}
	return symbols
}
