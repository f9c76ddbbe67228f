package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultMaxSteps bounds run_simulation when max_steps is not given.
const DefaultMaxSteps = 10000

// DefaultStepLimit caps the max_steps a run_simulation call may ask for.
const DefaultStepLimit = 1_000_000

// StateResult is the structured output of the simulation tools.
type StateResult struct {
	Machine string           `json:"machine" jsonschema_description:"The machine the run belongs to"`
	State   *domain.RunState `json:"state" jsonschema_description:"The run state; pass it back to step_simulation"`
	Outcome domain.Outcome   `json:"outcome" jsonschema_description:"running, accepted or rejected"`
	Note    string           `json:"note,omitempty" jsonschema_description:"Set when a run stopped before halting"`
}

// InitArgs are the arguments of init_simulation and run_simulation.
type InitArgs struct {
	Machine  string   `json:"machine"`
	Input    string   `json:"input"`
	Inputs   []string `json:"inputs"`
	MaxSteps int      `json:"max_steps"`
}

func (a InitArgs) tapeInputs() []string {
	if len(a.Inputs) > 0 {
		return a.Inputs
	}
	return []string{a.Input}
}

// StepArgs are the arguments of step_simulation.
type StepArgs struct {
	Machine string `json:"machine"`
	State   string `json:"state"`
}

// Server wraps the Simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	mcpServer *server.MCPServer
	stepLimit int
}

// Option configures the Server.
type Option func(*Server)

// WithStepLimit caps the step budget run_simulation may ask for.
func WithStepLimit(n int) Option {
	return func(s *Server) {
		s.stepLimit = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
		stepLimit: DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stepLimit <= 0 {
		s.stepLimit = DefaultStepLimit
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the loaded Turing machines."),
	), s.handleListMachines)

	s.mcpServer.AddTool(mcp.NewTool("describe_machine",
		mcp.WithDescription("Get the full description of a machine: tapes, states and transition table."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
	), s.handleDescribeMachine)

	initTool := mcp.NewTool("init_simulation",
		mcp.WithDescription("Initialize a run. Returns the starting state to pass to step_simulation."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("input", mcp.Description("Input of the first tape")),
		mcp.WithArray("inputs", mcp.WithStringItems(), mcp.Description("One input per tape; overrides input")),
		mcp.WithOutputSchema[StateResult](),
	)
	s.mcpServer.AddTool(initTool, mcp.NewStructuredToolHandler(s.handleInit))

	stepTool := mcp.NewTool("step_simulation",
		mcp.WithDescription("Apply one transition to a run state."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("state", mcp.Required(), mcp.Description("JSON run state as returned by init_simulation or step_simulation")),
		mcp.WithOutputSchema[StateResult](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	runTool := mcp.NewTool("run_simulation",
		mcp.WithDescription("Run a machine on an input until it halts or the step budget is spent."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithString("input", mcp.Description("Input of the first tape")),
		mcp.WithArray("inputs", mcp.WithStringItems(), mcp.Description("One input per tape; overrides input")),
		mcp.WithNumber("max_steps", mcp.Description(fmt.Sprintf("Step budget (default %d, capped by the server)", DefaultMaxSteps))),
		mcp.WithOutputSchema[StateResult](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))
}

func (s *Server) handleListMachines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.sim.Machines())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribeMachine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.sim.Machine(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) result(name string, state *domain.RunState) StateResult {
	res := StateResult{Machine: name, State: state}
	if m, err := s.sim.Machine(name); err == nil {
		res.Outcome = m.Outcome(state)
	}
	return res
}

func (s *Server) handleInit(ctx context.Context, request mcp.CallToolRequest, args InitArgs) (StateResult, error) {
	state, err := s.sim.Start(ctx, args.Machine, args.tapeInputs())
	if err != nil {
		return StateResult{}, fmt.Errorf("init failed: %w", err)
	}
	return s.result(args.Machine, state), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args StepArgs) (StateResult, error) {
	var state domain.RunState
	if err := json.Unmarshal([]byte(args.State), &state); err != nil {
		return StateResult{}, fmt.Errorf("state is not a JSON run state: %w", err)
	}
	next, err := s.sim.Step(ctx, args.Machine, &state)
	if err != nil {
		return StateResult{}, fmt.Errorf("step failed: %w", err)
	}
	return s.result(args.Machine, next), nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args InitArgs) (StateResult, error) {
	state, err := s.sim.Start(ctx, args.Machine, args.tapeInputs())
	if err != nil {
		return StateResult{}, fmt.Errorf("run failed: %w", err)
	}

	budget := args.MaxSteps
	if budget <= 0 {
		budget = DefaultMaxSteps
	}
	budget = min(budget, s.stepLimit)
	final, err := s.sim.Run(ctx, args.Machine, state, budget)
	if errors.Is(err, domain.ErrStepBudgetExceeded) {
		res := s.result(args.Machine, final)
		res.Note = fmt.Sprintf("no halt within %d steps", budget)
		return res, nil
	}
	if err != nil {
		return StateResult{}, fmt.Errorf("run failed: %w", err)
	}
	return s.result(args.Machine, final), nil
}

// MachineURI is the resource URI of a machine description.
func MachineURI(name string) string {
	return "turing://machine/" + name
}

func (s *Server) registerResources() {
	for _, name := range s.sim.Machines() {
		uri := MachineURI(name)
		s.mcpServer.AddResource(mcp.NewResource(uri, name,
			mcp.WithResourceDescription("Machine description"),
			mcp.WithMIMEType("application/json"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			m, err := s.sim.Machine(name)
			if err != nil {
				return nil, err
			}
			jsonBytes, err := json.Marshal(m)
			if err != nil {
				return nil, fmt.Errorf("failed to encode machine: %w", err)
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(jsonBytes),
				},
			}, nil
		})
	}
}
