// Package llm hides the hosted chat model behind a single Generate call.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is token accounting as reported by the provider; zero when it reports none.
type Usage struct {
	Prompt     int
	Completion int
	Total      int
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Client generates the next assistant turn for a conversation.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
