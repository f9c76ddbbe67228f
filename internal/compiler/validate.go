package compiler

import (
	"fmt"
	"math"

	"github.com/aretw0/turing/pkg/domain"
)

// Canonical keys and the aliases accepted from older description files.
const (
	keyName         = "name"
	keyDescription  = "description"
	keyTapeCount    = "tape_count"
	keyTapesAlias   = "tapes"
	keyBlankSymbol  = "blank_symbol"
	keyInitialState = "initial_state"
	keyFinalStates  = "final_states"
	keyFinalState   = "final_state"
	keyTransitions  = "transitions"
	keyTransAlias   = "transition"
	keyInputSpec    = "input_spec"
)

// document is the validated generic tree. Every field has the right shape,
// but scalars are still raw YAML values.
type document struct {
	name        any
	description any
	tapeCount   int
	blank       any
	initial     any
	finals      []any
	transitions []rawTransition
	inputSpec   any
}

type rawTransition struct {
	from  any
	read  []any
	to    any
	write []any
	moves []any
}

// validate checks the generic tree. The first violated rule wins:
// presence, then tape_count, then the scalar fields, then final states, then
// each transition in order.
func validate(root any) (*document, error) {
	fields, ok := asMap(root)
	if !ok {
		return nil, domain.Invalid("", "description must be a mapping")
	}

	doc := &document{
		description: fields[keyDescription],
		inputSpec:   fields[keyInputSpec],
	}

	tapeCount := lookup(fields, keyTapeCount, keyTapesAlias)
	transitions := lookup(fields, keyTransitions, keyTransAlias)
	finals := lookup(fields, keyFinalStates, keyFinalState)

	required := []struct {
		key   string
		value any
	}{
		{keyName, fields[keyName]},
		{keyTapeCount, tapeCount},
		{keyBlankSymbol, fields[keyBlankSymbol]},
		{keyInitialState, fields[keyInitialState]},
		{keyTransitions, transitions},
		{keyFinalStates, finals},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, domain.Invalid(r.key, "required")
		}
	}

	n, err := positiveInt(tapeCount)
	if err != nil {
		return nil, domain.Invalid(keyTapeCount, err.Error())
	}
	doc.tapeCount = n

	for _, key := range []string{keyName, keyBlankSymbol, keyInitialState} {
		s, ok := scalar(fields[key])
		if !ok {
			return nil, domain.Invalid(key, fmt.Sprintf("must be a scalar (got %T)", fields[key]))
		}
		if trim(s) == "" {
			return nil, domain.Invalid(key, "must not be empty")
		}
	}
	doc.name = fields[keyName]
	doc.blank = fields[keyBlankSymbol]
	doc.initial = fields[keyInitialState]

	doc.finals, err = finalStates(finals)
	if err != nil {
		return nil, err
	}

	list, ok := transitions.([]any)
	if !ok {
		return nil, domain.Invalid(keyTransitions, fmt.Sprintf("must be a list (got %T)", transitions))
	}
	doc.transitions = make([]rawTransition, 0, len(list))
	for i, item := range list {
		rt, err := validateTransition(i, item, n)
		if err != nil {
			return nil, err
		}
		doc.transitions = append(doc.transitions, rt)
	}

	return doc, nil
}

// lookup returns the canonical key's value, falling back to the alias.
func lookup(fields map[string]any, key, alias string) any {
	if v, ok := fields[key]; ok && v != nil {
		return v
	}
	return fields[alias]
}

func positiveInt(v any) (int, error) {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int64:
		n = t
	case uint64:
		if t > math.MaxInt32 {
			return 0, fmt.Errorf("too large (%d)", t)
		}
		n = int64(t)
	default:
		return 0, fmt.Errorf("must be a positive integer (got %T)", v)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be a positive integer (got %d)", n)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("too large (%d)", n)
	}
	return int(n), nil
}

func finalStates(v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for i, item := range items {
		if _, ok := scalar(item); !ok {
			return nil, domain.Invalid(fmt.Sprintf("%s[%d]", keyFinalStates, i), fmt.Sprintf("must be a scalar (got %T)", item))
		}
	}
	return items, nil
}

// validateTransition accepts [[from, [reads]], [to, [writes], [moves]]]
// or a mapping with from/read/to/write/move keys.
func validateTransition(i int, item any, tapeCount int) (rawTransition, error) {
	var rt rawTransition
	var read, write, moves any

	if fields, ok := asMap(item); ok {
		rt.from, rt.to = fields["from"], fields["to"]
		read, write = fields["read"], fields["write"]
		moves = lookup(fields, "move", "moves")
	} else {
		parts, ok := item.([]any)
		if !ok || len(parts) != 2 {
			return rt, domain.InvalidTransition(i, "", "expected [[from, [reads]], [to, [writes], [moves]]]")
		}
		lhs, ok := parts[0].([]any)
		if !ok || len(lhs) != 2 {
			return rt, domain.InvalidTransition(i, "", "left side must be [from, [reads]]")
		}
		rhs, ok := parts[1].([]any)
		if !ok || len(rhs) != 3 {
			return rt, domain.InvalidTransition(i, "", "right side must be [to, [writes], [moves]]")
		}
		rt.from, read = lhs[0], lhs[1]
		rt.to, write, moves = rhs[0], rhs[1], rhs[2]
	}

	if _, ok := scalar(rt.from); !ok {
		return rt, domain.InvalidTransition(i, "from", "state must be a scalar")
	}
	if _, ok := scalar(rt.to); !ok {
		return rt, domain.InvalidTransition(i, "to", "state must be a scalar")
	}

	var err error
	if rt.read, err = symbols(read, tapeCount); err != nil {
		return rt, domain.InvalidTransition(i, "read", err.Error())
	}
	if rt.write, err = symbols(write, tapeCount); err != nil {
		return rt, domain.InvalidTransition(i, "write", err.Error())
	}
	if rt.moves, err = symbols(moves, tapeCount); err != nil {
		return rt, domain.InvalidTransition(i, "moves", err.Error())
	}
	for j, mv := range rt.moves {
		s, _ := scalar(mv)
		if _, err := domain.ParseMove(s); err != nil {
			return rt, domain.InvalidTransition(i, fmt.Sprintf("moves[%d]", j), err.Error())
		}
	}
	return rt, nil
}

// symbols checks a per-tape list: its length, then that each element is a scalar.
func symbols(v any, tapeCount int) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be a list (got %T)", v)
	}
	if len(list) != tapeCount {
		return nil, fmt.Errorf("expected %d elements (tape_count), got %d", tapeCount, len(list))
	}
	for j, item := range list {
		if _, ok := scalar(item); !ok {
			return nil, fmt.Errorf("element %d must be a scalar (got %T)", j, item)
		}
	}
	return list, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
