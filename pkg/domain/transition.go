package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Move is the head movement applied to one tape after a write.
type Move int

const (
	MoveNone Move = iota
	MoveLeft
	MoveRight
)

// ParseMove accepts L, R or N in any case, ignoring surrounding whitespace.
func ParseMove(s string) (Move, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return MoveLeft, nil
	case "R":
		return MoveRight, nil
	case "N":
		return MoveNone, nil
	}
	return MoveNone, fmt.Errorf("invalid move %q (expected L, R or N)", s)
}

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "L"
	case MoveRight:
		return "R"
	default:
		return "N"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(b []byte) error {
	mv, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = mv
	return nil
}

// Transition is a single rule of the transition table.
// Read, Write and Moves always hold exactly Machine.TapeCount elements.
type Transition struct {
	From  string
	Read  []string
	To    string
	Write []string
	Moves []Move
}

// Matches reports whether the rule fires for the given state and symbols read.
func (t *Transition) Matches(state string, symbols []string) bool {
	if t.From != state || len(t.Read) != len(symbols) {
		return false
	}
	for i := range symbols {
		if t.Read[i] != symbols[i] {
			return false
		}
	}
	return true
}

// Tuple returns the wire shape [[from, [reads]], [to, [writes], [moves]]].
func (t Transition) Tuple() [2][]any {
	moves := make([]string, len(t.Moves))
	for i, m := range t.Moves {
		moves[i] = m.String()
	}
	return [2][]any{
		{t.From, t.Read},
		{t.To, t.Write, moves},
	}
}

// MarshalJSON encodes the transition in its tuple shape.
func (t Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Tuple())
}

// UnmarshalJSON decodes the tuple shape produced by MarshalJSON.
func (t *Transition) UnmarshalJSON(data []byte) error {
	var raw [2][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("transition: %w", err)
	}
	if len(raw[0]) != 2 || len(raw[1]) != 3 {
		return fmt.Errorf("transition: expected [[from, reads], [to, writes, moves]]")
	}
	var out Transition
	targets := []any{&out.From, &out.Read, &out.To, &out.Write, &out.Moves}
	parts := append(append([]json.RawMessage{}, raw[0]...), raw[1]...)
	for i, part := range parts {
		if err := json.Unmarshal(part, targets[i]); err != nil {
			return fmt.Errorf("transition: %w", err)
		}
	}
	*t = out
	return nil
}
