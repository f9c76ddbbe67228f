package ports

// MachineLoader defines how raw machine description texts are sourced.
// This allows the storage layer (directory, memory) to be decoupled from parsing.
type MachineLoader interface {
	// ListSources returns the IDs of all available description texts, in a stable order.
	ListSources() ([]string, error)

	// ReadSource returns the raw text of one description.
	ReadSource(id string) ([]byte, error)
}
