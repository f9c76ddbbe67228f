package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	contract "github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	data := map[string][]byte{
		"a.yaml": []byte("name: a\n"),
		"b.yml":  []byte("name: b\n"),
	}
	for name, content := range data {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
	}
	// Ignored: wrong extension and subdirectory.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	contract.MachineLoaderContractTest(t, file.NewLoader(dir), data)
}

func TestLoader_RejectsPathTraversal(t *testing.T) {
	loader := file.NewLoader(t.TempDir())
	_, err := loader.ReadSource("../secret.yaml")
	assert.Error(t, err)
}

func TestLoader_MissingDirectory(t *testing.T) {
	_, err := file.NewLoader(filepath.Join(t.TempDir(), "missing")).ListSources()
	assert.Error(t, err)
}

func TestStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-x-123.json"), []byte("{}"), 0o644))
	require.NoError(t, store.Save(ctx, domain.NewSession("s1", "m", &domain.RunState{State: "q0"})))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	assert.Error(t, store.Save(ctx, domain.NewSession("../escape", "m", &domain.RunState{})))
}
