package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader implements ports.MachineLoader over a directory of YAML description files.
// Source IDs are file names relative to the directory; subdirectories are not scanned.
type Loader struct {
	Dir string
}

// NewLoader creates a loader for dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// IsDescriptionFile reports whether name has a .yml or .yaml extension.
func IsDescriptionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// ListSources returns the description file names, sorted.
func (l *Loader) ListSources() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample directory %s: %w", l.Dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDescriptionFile(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}

// ReadSource reads one description file.
func (l *Loader) ReadSource(id string) ([]byte, error) {
	if id == "" || id != filepath.Base(id) || !IsDescriptionFile(id) {
		return nil, fmt.Errorf("invalid source id %q", id)
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return data, nil
}
