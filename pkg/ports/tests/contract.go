package tests

import (
	"testing"

	"github.com/aretw0/turing/pkg/ports"
)

// MachineLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.MachineLoader.
func MachineLoaderContractTest(t *testing.T, loader ports.MachineLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("ReadSource_Success", func(t *testing.T) {
		for id, expectedContent := range setupData {
			content, err := loader.ReadSource(id)
			if err != nil {
				t.Fatalf("unexpected error reading source %s: %v", id, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", id, content, expectedContent)
			}
		}
	})

	t.Run("ReadSource_NotFound", func(t *testing.T) {
		_, err := loader.ReadSource("non-existent-source")
		if err == nil {
			t.Error("expected error for non-existent source, got nil")
		}
	})

	t.Run("ListSources", func(t *testing.T) {
		ids, err := loader.ListSources()
		if err != nil {
			t.Fatalf("unexpected error listing sources: %v", err)
		}
		if len(ids) != len(setupData) {
			t.Errorf("expected %d sources, got %d (%v)", len(setupData), len(ids), ids)
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1] > ids[i] {
				t.Errorf("sources not sorted: %v", ids)
				break
			}
		}
		for _, id := range ids {
			if _, ok := setupData[id]; !ok {
				t.Errorf("unexpected source %s", id)
			}
		}
	})
}
