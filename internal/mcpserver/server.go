// Package mcpserver exposes the dispatcher as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/history"
	"ai-infobot/internal/intent"
)

const defaultSessionID = "mcp"

// RespondParams are the arguments of the respond tool.
type RespondParams struct {
	Message   string `json:"message" mcp:"the user's utterance"`
	SessionID string `json:"session_id,omitempty" mcp:"conversation id; turns with the same id share history (default: mcp)"`
}

// ClassifyParams are the arguments of the classify tool.
type ClassifyParams struct {
	Message string `json:"message" mcp:"the utterance to classify"`
}

type Dispatcher interface {
	Handle(ctx context.Context, s chatbot.Session, utterance string) chatbot.Reply
}

type Server struct {
	bot        Dispatcher
	classifier *intent.Classifier
	sessions   *history.Manager
	log        *zap.SugaredLogger
}

func New(bot Dispatcher, classifier *intent.Classifier, sessions *history.Manager, log *zap.SugaredLogger) *Server {
	return &Server{bot: bot, classifier: classifier, sessions: sessions, log: log}
}

func textResult(text string, isError bool) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: isError,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Respond answers a message the same way the web and Telegram front-ends do.
func (s *Server) Respond(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[RespondParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if strings.TrimSpace(args.Message) == "" {
		return textResult("❌ message is required", true), nil
	}
	id := args.SessionID
	if id == "" {
		id = defaultSessionID
	}

	r := s.bot.Handle(ctx, chatbot.Session{ID: "mcp:" + id, Transcript: s.sessions.Session("mcp:" + id)}, args.Message)
	s.log.Debugf("🔧 respond session=%s intent=%s outcome=%s", id, r.Intent, r.Outcome())

	return textResult(r.Text, r.Failed()), nil
}

// Classify reports the intent and the rule that selected it without any I/O.
func (s *Server) Classify(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ClassifyParams]) (*mcp.CallToolResultFor[any], error) {
	msg := params.Arguments.Message
	rule, ok := s.classifier.Explain(msg)
	if !ok {
		return textResult(fmt.Sprintf("intent: %s\nrule: default", intent.Conversation), false), nil
	}
	return textResult(fmt.Sprintf("intent: %s\nrule: #%d %s", rule.Intent, rule.Priority, rule.Pattern), false), nil
}

// Build registers the tools on a new MCP server.
func (s *Server) Build(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ai-infobot",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "respond",
		Description: "Answers a message: weather, news, sports, date/time, encyclopedia lookups or chat",
	}, s.Respond)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify",
		Description: "Shows which intent a message would be routed to and why",
	}, s.Classify)

	return server
}

// Run serves the tools on stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context, version string) error {
	s.log.Infof("🔗 Starting MCP server on stdin/stdout")
	return s.Build(version).Run(ctx, mcp.NewStdioTransport())
}
