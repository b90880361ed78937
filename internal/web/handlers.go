package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/reply"
)

const (
	sessionCookie = "infobot_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
	OK       bool   `json:"ok"`
	Kind     string `json:"kind,omitempty"`
	HTML     string `json:"html,omitempty"`
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "AI Infobot"})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, chatResponse{Response: "⚠️ Invalid request: " + err.Error(), Kind: string(reply.KindInput)})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, chatResponse{Response: "⚠️ Please type a message.", Kind: string(reply.KindInput)})
		return
	}

	id := s.sessionID(c)
	r := s.bot.Handle(c.Request.Context(), chatbot.Session{ID: id, Transcript: s.sessions.Session(id)}, req.Message)

	c.JSON(http.StatusOK, chatResponse{
		Response: r.Text,
		Intent:   string(r.Intent),
		OK:       !r.Failed(),
		Kind:     string(r.Kind),
		HTML:     renderMarkdown(r.Text),
	})
}

func (s *Server) reset(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		s.sessions.Reset(id)
		s.log.Infof("🧹 session %s reset", id)
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"sessions": s.sessions.Len(),
	})
}

// sessionID reads the session cookie, issuing a new one on first contact.
func (s *Server) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
	return id
}
