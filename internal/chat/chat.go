// Package chat is the conversational fallback: anything the keyword rules do
// not claim is answered by a hosted chat model with the session transcript as
// context.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ai-infobot/internal/history"
	"ai-infobot/internal/llm"
	"ai-infobot/internal/reply"
)

const DefaultSystemPrompt = `
You are a helpful AI assistant.
- Answer questions clearly.
- Solve math problems.
- Write code if user asks.
- Be friendly and concise.
`

type Fallback struct {
	client       llm.Client
	systemPrompt string
	log          *zap.SugaredLogger
}

func New(client llm.Client, systemPrompt string, log *zap.SugaredLogger) *Fallback {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Fallback{client: client, systemPrompt: systemPrompt, log: log}
}

// Reply records the user turn, asks the model and records its answer.
//
// A failed completion leaves the user turn in the transcript without an
// answer; the next exchange sends it to the model again as context.
func (f *Fallback) Reply(ctx context.Context, t *history.Transcript, utterance string) reply.Result {
	end := t.BeginExchange()
	defer end()

	t.AppendUser(utterance)

	msgs := make([]llm.Message, 0, t.Len()+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: f.systemPrompt})
	msgs = append(msgs, t.Turns()...)

	resp, err := f.client.Generate(ctx, msgs)
	if err != nil {
		f.log.Errorf("❌ chat completion failed: %v", err)
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error: %v", err))
	}

	t.AppendAssistant(resp.Content)
	f.log.Infof("🤖 LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.Usage.Prompt, resp.Usage.Completion, resp.Usage.Total)
	return reply.Success(resp.Content)
}
