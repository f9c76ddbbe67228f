package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Loader implements ports.MachineLoader using an in-memory map of description texts.
type Loader struct {
	sources map[string][]byte
}

// NewLoader creates a new Loader with the provided raw YAML texts keyed by source ID.
func NewLoader(data map[string]string) *Loader {
	sources := make(map[string][]byte, len(data))
	for k, v := range data {
		sources[k] = []byte(v)
	}
	return &Loader{sources: sources}
}

// NewFromMachines creates a Loader from already-built descriptions.
// Each machine is serialized to its canonical YAML form, keyed by name.
func NewFromMachines(machines ...*domain.Machine) (*Loader, error) {
	sources := make(map[string][]byte, len(machines))
	for _, m := range machines {
		if m == nil || m.Name == "" {
			return nil, fmt.Errorf("machine missing name")
		}
		text, err := compiler.Format(m)
		if err != nil {
			return nil, fmt.Errorf("failed to format machine %s: %w", m.Name, err)
		}
		sources[m.Name] = text
	}
	return &Loader{sources: sources}, nil
}

// ReadSource retrieves the raw text of a description by ID.
func (l *Loader) ReadSource(id string) ([]byte, error) {
	content, ok := l.sources[id]
	if !ok {
		return nil, fmt.Errorf("source not found: %s", id)
	}
	return content, nil
}

// ListSources returns all available source IDs.
func (l *Loader) ListSources() ([]string, error) {
	keys := make([]string, 0, len(l.sources))
	for k := range l.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
