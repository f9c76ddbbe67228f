package domain

import "slices"

// RunDiff represents the changes between two run states.
// It is designed to be serialized to JSON for partial updates on the client.
type RunDiff struct {
	State     *string      `json:"state,omitempty"`
	Heads     []int        `json:"heads,omitempty"`
	Cells     []CellChange `json:"cells,omitempty"`
	Halted    *bool        `json:"halted,omitempty"`
	StepCount *int         `json:"step_count,omitempty"`
}

// CellChange is a single written or newly grown tape cell.
type CellChange struct {
	Tape   int    `json:"tape"`
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *RunState) *RunDiff {
	if newState == nil {
		return nil
	}
	if oldState == nil {
		oldState = &RunState{}
	}

	diff := &RunDiff{}
	if oldState.State != newState.State {
		diff.State = &newState.State
	}
	if !slices.Equal(oldState.Heads, newState.Heads) {
		diff.Heads = newState.Heads
	}
	if oldState.Halted != newState.Halted {
		diff.Halted = &newState.Halted
	}
	if oldState.StepCount != newState.StepCount {
		diff.StepCount = &newState.StepCount
	}
	diff.Cells = diffCells(oldState.Tapes, newState.Tapes)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffCells assumes tapes only grow, which holds for every engine step.
func diffCells(old, new [][]string) []CellChange {
	var changes []CellChange
	for t, tape := range new {
		var prev []string
		if t < len(old) {
			prev = old[t]
		}
		for i, sym := range tape {
			if i >= len(prev) || prev[i] != sym {
				changes = append(changes, CellChange{Tape: t, Index: i, Symbol: sym})
			}
		}
	}
	return changes
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *RunDiff) IsEmpty() bool {
	return d.State == nil &&
		d.Heads == nil &&
		d.Halted == nil &&
		d.StepCount == nil &&
		len(d.Cells) == 0
}
