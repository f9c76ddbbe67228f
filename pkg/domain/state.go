package domain

import (
	"fmt"
	"unicode/utf8"
)

// RunState is the complete, fully-owned snapshot of one simulation.
// It holds no reference to the Machine it runs against, so callers may
// serialize it between steps and reattach it to the same description later.
type RunState struct {
	// State is the current control state.
	State string `json:"state"`

	// Tapes holds one cell sequence per tape.
	Tapes [][]string `json:"tapes"`

	// Heads holds one non-negative offset per tape.
	Heads []int `json:"heads"`

	// Halted is permanent: once true, the state is never advanced again.
	Halted bool `json:"halted"`

	// StepCount counts successfully applied transitions.
	StepCount int `json:"step_count"`
}

// Clone returns a deep copy that shares no slices with the receiver.
func (s *RunState) Clone() *RunState {
	if s == nil {
		return nil
	}
	next := *s
	next.Tapes = make([][]string, len(s.Tapes))
	for i, tape := range s.Tapes {
		next.Tapes[i] = append([]string{}, tape...)
	}
	next.Heads = append([]int{}, s.Heads...)
	return &next
}

// Validate checks that an externally supplied state can be reattached to m.
func (s *RunState) Validate(m *Machine) error {
	if s == nil {
		return fmt.Errorf("%w: missing state", ErrInvalidRunState)
	}
	if s.State == "" {
		return fmt.Errorf("%w: empty control state", ErrInvalidRunState)
	}
	if len(s.Tapes) != m.TapeCount {
		return fmt.Errorf("%w: expected %d tapes, got %d", ErrInvalidRunState, m.TapeCount, len(s.Tapes))
	}
	if len(s.Heads) != m.TapeCount {
		return fmt.Errorf("%w: expected %d heads, got %d", ErrInvalidRunState, m.TapeCount, len(s.Heads))
	}
	for i, h := range s.Heads {
		if h < 0 {
			return fmt.Errorf("%w: head %d is negative (%d)", ErrInvalidRunState, i, h)
		}
		// A head may sit one cell past the end right after initialization, never further.
		if h > len(s.Tapes[i]) {
			return fmt.Errorf("%w: head %d at %d is past the end of its tape (length %d)", ErrInvalidRunState, i, h, len(s.Tapes[i]))
		}
	}
	var known map[string]bool
	for i, tape := range s.Tapes {
		for pos, cell := range tape {
			if utf8.RuneCountInString(cell) == 1 {
				continue
			}
			// Multi-character symbols are only valid when the machine declares them.
			if known == nil {
				known = make(map[string]bool)
				for _, sym := range m.Symbols() {
					known[sym] = true
				}
			}
			if !known[cell] {
				return fmt.Errorf("%w: tape %d cell %d holds %q, not a single character", ErrInvalidRunState, i, pos, cell)
			}
		}
	}
	if s.StepCount < 0 {
		return fmt.Errorf("%w: negative step count", ErrInvalidRunState)
	}
	return nil
}
