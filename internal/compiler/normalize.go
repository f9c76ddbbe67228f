package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// normalize converts a validated document into the canonical Machine.
func normalize(doc *document) (*domain.Machine, error) {
	m := &domain.Machine{
		Name:         str(doc.name),
		TapeCount:    doc.tapeCount,
		BlankSymbol:  str(doc.blank),
		InitialState: str(doc.initial),
		FinalStates:  make([]string, 0, len(doc.finals)),
		Transitions:  make([]domain.Transition, 0, len(doc.transitions)),
	}
	if doc.description != nil {
		m.Description = str(doc.description)
	}

	seen := make(map[string]bool)
	for _, f := range doc.finals {
		s := str(f)
		if !seen[s] {
			seen[s] = true
			m.FinalStates = append(m.FinalStates, s)
		}
	}

	for _, rt := range doc.transitions {
		t := domain.Transition{
			From:  str(rt.from),
			To:    str(rt.to),
			Read:  strs(rt.read),
			Write: strs(rt.write),
			Moves: make([]domain.Move, len(rt.moves)),
		}
		for j, mv := range rt.moves {
			// Already checked by validate.
			t.Moves[j], _ = domain.ParseMove(str(mv))
		}
		m.Transitions = append(m.Transitions, t)
	}

	if doc.inputSpec != nil {
		spec, err := decodeInputSpec(doc.inputSpec)
		if err != nil {
			return nil, domain.Invalid(keyInputSpec, err.Error())
		}
		m.InputSpec = spec
	}

	return m, nil
}

func decodeInputSpec(v any) ([]domain.InputSpec, error) {
	if _, ok := v.([]any); !ok {
		v = []any{v}
	}
	var out []domain.InputSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Example = strings.TrimSpace(out[i].Example)
	}
	return out, nil
}

// scalar coerces a YAML leaf into its canonical string form.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case map[string]any, map[any]any, []any:
		return "", false
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return fmt.Sprint(v), true
	}
	return s, true
}

func str(v any) string {
	s, _ := scalar(v)
	return trim(s)
}

func strs(vs []any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = str(v)
	}
	return out
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
