// Package session scopes suggestion deduplication to one continuous
// interaction with a student. A Session is passed explicitly through every
// generation and lifecycle call; nothing here is global.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Exchange is one prompt/reply pair sent to the external generator.
type Exchange struct {
	Prompt string
	Reply  string
}

// Session is the lifetime over which the exclusion set accumulates.
type Session struct {
	ID        string
	StudentID string

	tracker   *Tracker
	rounds    int
	exchanges []Exchange
}

// Tracker returns the session's deduplication tracker.
func (s *Session) Tracker() *Tracker { return s.tracker }

// Rounds returns the number of completed generation rounds.
func (s *Session) Rounds() int { return s.rounds }

// Exchanges returns the generator conversation held by this process.
func (s *Session) Exchanges() []Exchange {
	return append([]Exchange(nil), s.exchanges...)
}

// CompleteRound records a finished generation round. An empty reply means
// the round was served without the generator and is not part of the
// conversation.
func (s *Session) CompleteRound(prompt, reply string) {
	s.rounds++
	if reply != "" {
		s.exchanges = append(s.exchanges, Exchange{Prompt: prompt, Reply: reply})
	}
}

// Manager creates and resumes sessions against an exclusion backend.
type Manager struct {
	backend Backend
}

// NewManager returns a Manager. A nil backend keeps sessions in memory.
func NewManager(backend Backend) *Manager {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Manager{backend: backend}
}

// Begin starts a fresh session for the student with an empty exclusion set.
func (m *Manager) Begin(studentID string) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		StudentID: studentID,
		tracker:   newTracker(key(studentID, id), m.backend, nil),
	}
}

// Resume reopens a session, loading its exclusion set from the backend.
// An unknown or expired id resumes with an empty set.
func (m *Manager) Resume(ctx context.Context, studentID, sessionID string) (*Session, error) {
	if sessionID == "" {
		return m.Begin(studentID), nil
	}
	k := key(studentID, sessionID)
	titles, err := m.backend.Load(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return &Session{
		ID:        sessionID,
		StudentID: studentID,
		tracker:   newTracker(k, m.backend, titles),
	}, nil
}

func key(studentID, sessionID string) string {
	return "sprout:session:" + studentID + ":" + sessionID
}
