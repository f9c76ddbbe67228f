package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inverter = `
name: Inverter
tape_count: 1
blank_symbol: _
initial_state: flip
final_states: [done]
transitions:
  - [[flip, [0]], [flip, [1], [R]]]
  - [[flip, [1]], [flip, [0], [R]]]
  - [[flip, [_]], [done, [_], [N]]]
`

func newServer(t *testing.T) *Server {
	t.Helper()
	sim, err := turing.New(memory.NewLoader(map[string]string{"inverter": inverter}))
	require.NoError(t, err)
	return NewServer(sim)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestInitAndStep(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	init, err := s.handleInit(ctx, mcp.CallToolRequest{}, InitArgs{Machine: "Inverter", Input: "10"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRunning, init.Outcome)
	assert.Equal(t, [][]string{{"1", "0"}}, init.State.Tapes)

	raw, err := json.Marshal(init.State)
	require.NoError(t, err)
	next, err := s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{Machine: "Inverter", State: string(raw)})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"0", "0"}}, next.State.Tapes)
	assert.Equal(t, 1, next.State.StepCount)

	_, err = s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{Machine: "Inverter", State: "not json"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleRun(ctx, mcp.CallToolRequest{}, InitArgs{Machine: "Inverter", Inputs: []string{"0110"}})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAccepted, res.Outcome)
	assert.Empty(t, res.Note)

	res, err = s.handleRun(ctx, mcp.CallToolRequest{}, InitArgs{Machine: "Inverter", Input: "0110", MaxSteps: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRunning, res.Outcome)
	assert.Equal(t, 2, res.State.StepCount)
	assert.Contains(t, res.Note, "2 steps")

	_, err = s.handleRun(ctx, mcp.CallToolRequest{}, InitArgs{Machine: "Nope"})
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestRun_StepLimit(t *testing.T) {
	sim, err := turing.New(memory.NewLoader(map[string]string{"inverter": inverter}))
	require.NoError(t, err)
	s := NewServer(sim, WithStepLimit(3))

	res, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, InitArgs{Machine: "Inverter", Input: "0110", MaxSteps: 1_000_000_000})
	require.NoError(t, err)
	assert.Equal(t, 3, res.State.StepCount)
	assert.Contains(t, res.Note, "3 steps")
}

func TestListAndDescribe(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleListMachines(ctx, callRequest(nil))
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `["Inverter"]`, text.Text)

	res, err = s.handleDescribeMachine(ctx, callRequest(map[string]any{"name": "Inverter"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text = res.Content[0].(mcp.TextContent)
	assert.Contains(t, text.Text, `"initial_state":"flip"`)

	res, err = s.handleDescribeMachine(ctx, callRequest(map[string]any{"name": "Nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
