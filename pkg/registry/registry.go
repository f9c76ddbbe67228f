package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// ErrDuplicate is returned when a machine name is already registered.
var ErrDuplicate = errors.New("machine already registered")

// Entry is a registered machine and the source it was loaded from.
type Entry struct {
	Source  string
	Machine *domain.Machine
}

// Registry maps machine names to loaded descriptions.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		machines: make(map[string]Entry),
	}
}

// Register adds a machine under its name.
// The first registration of a name wins; later ones return ErrDuplicate.
func (r *Registry) Register(source string, m *domain.Machine) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("cannot register machine from %s: missing name", source)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.machines[m.Name]; ok {
		return fmt.Errorf("%w: %q from %s (kept %s)", ErrDuplicate, m.Name, source, prev.Source)
	}
	r.machines[m.Name] = Entry{Source: source, Machine: m}
	return nil
}

// Get looks up a machine by name.
// Returns domain.ErrMachineNotFound if the name is unknown.
func (r *Registry) Get(name string) (*domain.Machine, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return entry.Machine, nil
}

// Lookup returns the entry for name, if present.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.machines[name]
	return entry, ok
}

// Names returns the registered machine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered machines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.machines)
}
