package compiler

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

type canonical struct {
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description,omitempty"`
	TapeCount    int                `yaml:"tape_count"`
	BlankSymbol  string             `yaml:"blank_symbol"`
	InitialState string             `yaml:"initial_state"`
	FinalStates  []string           `yaml:"final_states"`
	Transitions  [][2][]any         `yaml:"transitions"`
	InputSpec    []canonicalExample `yaml:"input_spec,omitempty"`
}

type canonicalExample struct {
	Description string `yaml:"description,omitempty"`
	Example     string `yaml:"example"`
}

// Format encodes m as canonical description YAML.
// Parse(Format(m)) yields a Machine equal to m.
func Format(m *domain.Machine) ([]byte, error) {
	doc := canonical{
		Name:         m.Name,
		Description:  m.Description,
		TapeCount:    m.TapeCount,
		BlankSymbol:  m.BlankSymbol,
		InitialState: m.InitialState,
		FinalStates:  m.FinalStates,
		Transitions:  make([][2][]any, len(m.Transitions)),
	}
	for i, t := range m.Transitions {
		doc.Transitions[i] = t.Tuple()
	}
	for _, in := range m.InputSpec {
		doc.InputSpec = append(doc.InputSpec, canonicalExample(in))
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to format machine %s: %w", m.Name, err)
	}
	return out, nil
}
