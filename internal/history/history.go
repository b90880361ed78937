package history

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Manager owns the transcripts of all live sessions. The least recently used
// session is dropped once capacity is reached; its next message starts fresh.
type Manager struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Transcript]
}

func NewManager(capacity int) (*Manager, error) {
	cache, err := lru.New[string, *Transcript](capacity)
	if err != nil {
		return nil, fmt.Errorf("init session cache: %w", err)
	}
	return &Manager{sessions: cache}, nil
}

// Session returns the transcript for sessionID, creating it on first use.
func (m *Manager) Session(sessionID string) *Transcript {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.sessions.Get(sessionID); ok {
		return t
	}
	t := NewTranscript()
	m.sessions.Add(sessionID, t)
	return t
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Remove(sessionID)
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}
