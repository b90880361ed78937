package history

import (
	"sync"

	"ai-infobot/internal/llm"
)

// Transcript is the append-only record of one conversation.
// It is safe for concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []llm.Message

	// exchange serializes whole user->assistant round trips
	exchange sync.Mutex
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) AppendUser(content string) {
	t.append(llm.Message{Role: llm.RoleUser, Content: content})
}

func (t *Transcript) AppendAssistant(content string) {
	t.append(llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (t *Transcript) append(msg llm.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, msg)
}

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []llm.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]llm.Message, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// BeginExchange blocks until no other exchange runs on this transcript.
// The returned func ends the exchange.
func (t *Transcript) BeginExchange() (end func()) {
	t.exchange.Lock()
	return t.exchange.Unlock
}
