package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// SessionResponse is a session plus the verdict of its run.
type SessionResponse struct {
	*domain.Session
	Outcome domain.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

type runSessionRequest struct {
	MaxSteps int `json:"max_steps,omitempty"`
}

func (s *Server) sessionResponse(sess *domain.Session) SessionResponse {
	resp := SessionResponse{Session: sess}
	if m, err := s.Sim.Machine(sess.Machine); err == nil {
		resp.Outcome = m.Outcome(sess.Run)
	}
	return resp
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body InitRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("CreateSession: Invalid request body", "err", err)
		return
	}

	sess, err := s.Sessions.Start(r.Context(), body.Machine, body.tapeInputs())
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles the POST /sessions/{id}/step request.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, diff, err := s.Sessions.Step(r.Context(), id)
	if err != nil {
		s.fail(w, "StepSession", err)
		return
	}
	s.broadcast(id, diff)
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

// RunSession handles the POST /sessions/{id}/run request.
func (s *Server) RunSession(w http.ResponseWriter, r *http.Request) {
	var body runSessionRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("RunSession: Invalid request body", "err", err)
		return
	}

	id := chi.URLParam(r, "id")
	steps := s.budget(body.MaxSteps)
	sess, diff, err := s.Sessions.Run(r.Context(), id, steps)
	if sess == nil {
		s.fail(w, "RunSession", err)
		return
	}
	s.broadcast(id, diff)

	if errors.Is(err, domain.ErrStepBudgetExceeded) {
		resp := s.sessionResponse(sess)
		resp.Error = fmt.Sprintf("no halt within %d steps", steps)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		s.fail(w, "RunSession", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) broadcast(sessionID string, diff *domain.RunDiff) {
	if diff == nil {
		s.logger.Debug("No diff calculated", "session_id", sessionID)
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Diff encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(bytes))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Each message is a JSON RunDiff of one step or run request.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), sessionID); err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

// Subscribe registers a buffered channel for sessionID.
// The returned func unregisters and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Subscribers returns the number of open streams for sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}
