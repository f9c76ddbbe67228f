package domain

import "time"

// Session is a server-held run: a RunState bound to the machine it runs against.
type Session struct {
	ID        string    `json:"id"`
	Machine   string    `json:"machine"`
	Run       *RunState `json:"run"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session for a freshly initialized run.
func NewSession(id, machine string, run *RunState) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Machine:   machine,
		Run:       run,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy, so stores can isolate their data from callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Run = s.Run.Clone()
	return &next
}
