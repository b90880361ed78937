package main

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/config"
	"ai-infobot/internal/history"
	"ai-infobot/internal/llm"
	"ai-infobot/internal/metrics"
	"ai-infobot/internal/storage"
)

// app holds everything the front-ends share.
type app struct {
	bot      *chatbot.Bot
	sessions *history.Manager
	metrics  *metrics.Metrics
	recorder storage.Recorder
	journal  *storage.FileRecorder
	log      *zap.SugaredLogger
}

func newApp(cfg *config.Config, log *zap.SugaredLogger) (*app, error) {
	client, err := llm.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := history.NewManager(cfg.MaxSessions)
	if err != nil {
		return nil, err
	}

	var (
		rec     storage.Recorder
		journal *storage.FileRecorder
	)
	if cfg.LogFilePath != "" {
		journal, err = storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Warnf("⚠️ Interaction journal disabled: %v", err)
			journal = nil
		} else {
			rec = journal
		}
	}

	m := metrics.New()
	bot := chatbot.NewFromConfig(cfg, client, readSystemPrompt(cfg.SystemPromptPath, log), rec, m, log)

	return &app{bot: bot, sessions: sessions, metrics: m, recorder: rec, journal: journal, log: log}, nil
}

func (a *app) close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		a.log.Warnf("⚠️ Failed to close interaction journal: %v", err)
	}
}

func readSystemPrompt(path string, log *zap.SugaredLogger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("⚠️ System prompt file unreadable at %s, using the built-in one: %v", path, err)
		return ""
	}
	return strings.TrimSpace(string(data))
}
