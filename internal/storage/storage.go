// Package storage is the interaction journal.
package storage

import "time"

// Event is one handled utterance and the reply it produced.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	Intent            string    `json:"intent"`
	Outcome           string    `json:"outcome"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
}

// Recorder must be safe for concurrent use. LoadInteractions returns events
// in the order they were appended.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
