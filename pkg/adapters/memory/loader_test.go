package memory_test

import (
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	contract "github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"inverter": "name: Inverter\n",
		"copy":     "name: Copy\n",
	}

	// The contract compares raw bytes.
	bytesData := make(map[string][]byte)
	for k, v := range data {
		bytesData[k] = []byte(v)
	}

	contract.MachineLoaderContractTest(t, memory.NewLoader(data), bytesData)
}

func TestNewFromMachines(t *testing.T) {
	m := &domain.Machine{
		Name:         "Flip",
		TapeCount:    1,
		BlankSymbol:  "_",
		InitialState: "q0",
		FinalStates:  []string{"done"},
		Transitions: []domain.Transition{
			{From: "q0", Read: []string{"0"}, To: "q0", Write: []string{"1"}, Moves: []domain.Move{domain.MoveRight}},
			{From: "q0", Read: []string{"_"}, To: "done", Write: []string{"_"}, Moves: []domain.Move{domain.MoveNone}},
		},
	}

	loader, err := memory.NewFromMachines(m)
	require.NoError(t, err)

	ids, err := loader.ListSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"Flip"}, ids)

	text, err := loader.ReadSource("Flip")
	require.NoError(t, err)
	parsed, err := compiler.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	_, err = memory.NewFromMachines(&domain.Machine{})
	assert.Error(t, err)
}
