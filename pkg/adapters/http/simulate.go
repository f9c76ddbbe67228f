package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// InitRequest starts a run. Inputs, when present, wins over Input.
type InitRequest struct {
	Machine string   `json:"machine"`
	Input   *string  `json:"input,omitempty"`
	Inputs  []string `json:"inputs,omitempty"`
}

func (req InitRequest) tapeInputs() []string {
	if req.Inputs != nil {
		return req.Inputs
	}
	if req.Input != nil {
		return []string{*req.Input}
	}
	return []string{""}
}

// StepRequest carries a client-held run state back to the server.
// Halt is accepted as an alias of Halted.
type StepRequest struct {
	Machine   string     `json:"machine"`
	State     string     `json:"state"`
	Tapes     [][]string `json:"tapes"`
	Heads     []int      `json:"heads"`
	Halted    *bool      `json:"halted,omitempty"`
	Halt      *bool      `json:"halt,omitempty"`
	StepCount int        `json:"step_count"`
}

func (req StepRequest) runState() *domain.RunState {
	halted := false
	switch {
	case req.Halted != nil:
		halted = *req.Halted
	case req.Halt != nil:
		halted = *req.Halt
	}
	return &domain.RunState{
		State:     req.State,
		Tapes:     req.Tapes,
		Heads:     req.Heads,
		Halted:    halted,
		StepCount: req.StepCount,
	}
}

// RunRequest runs a fresh run to completion under a step budget.
type RunRequest struct {
	InitRequest
	MaxSteps int `json:"max_steps,omitempty"`
}

// StateResponse is a run state plus its verdict.
type StateResponse struct {
	*domain.RunState
	Outcome domain.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) stateResponse(name string, state *domain.RunState) StateResponse {
	resp := StateResponse{RunState: state}
	if m, err := s.Sim.Machine(name); err == nil {
		resp.Outcome = m.Outcome(state)
	}
	return resp
}

// budget resolves a requested max_steps against the server's step limit.
func (s *Server) budget(maxSteps int) int {
	limit := s.StepLimit
	if limit <= 0 {
		limit = DefaultStepLimit
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return min(maxSteps, limit)
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Machines())
}

// GetMachine handles the GET /machine/{name} request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.Sim.Machine(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetMachine", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// InitSimulation handles the POST /simulate/init request.
func (s *Server) InitSimulation(w http.ResponseWriter, r *http.Request) {
	var body InitRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("InitSimulation: Invalid request body", "err", err)
		return
	}

	state, err := s.Sim.Start(r.Context(), body.Machine, body.tapeInputs())
	if err != nil {
		s.fail(w, "InitSimulation", err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(body.Machine, state))
}

// StepSimulation handles the POST /simulate/step request.
func (s *Server) StepSimulation(w http.ResponseWriter, r *http.Request) {
	var body StepRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("StepSimulation: Invalid request body", "err", err)
		return
	}

	next, err := s.Sim.Step(r.Context(), body.Machine, body.runState())
	if err != nil {
		s.fail(w, "StepSimulation", err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(body.Machine, next))
}

// RunSimulation handles the POST /simulate/run request.
func (s *Server) RunSimulation(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("RunSimulation: Invalid request body", "err", err)
		return
	}

	ctx := r.Context()
	state, err := s.Sim.Start(ctx, body.Machine, body.tapeInputs())
	if err != nil {
		s.fail(w, "RunSimulation", err)
		return
	}

	steps := s.budget(body.MaxSteps)
	final, err := s.Sim.Run(ctx, body.Machine, state, steps)
	if errors.Is(err, domain.ErrStepBudgetExceeded) {
		resp := s.stateResponse(body.Machine, final)
		resp.Error = fmt.Sprintf("no halt within %d steps", steps)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		s.fail(w, "RunSimulation", err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(body.Machine, final))
}
