package chatbot

import (
	"net/http"

	"go.uber.org/zap"

	"ai-infobot/internal/chat"
	"ai-infobot/internal/config"
	"ai-infobot/internal/intent"
	"ai-infobot/internal/llm"
	"ai-infobot/internal/metrics"
	"ai-infobot/internal/sources"
	"ai-infobot/internal/storage"
)

// NewFromConfig wires the production sources around the given chat client.
func NewFromConfig(cfg *config.Config, client llm.Client, systemPrompt string, rec storage.Recorder, m *metrics.Metrics, log *zap.SugaredLogger) *Bot {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	return New(Deps{
		Classifier:   intent.NewDefault(),
		Weather:      sources.NewWeather(hc, cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.DefaultCity),
		News:         sources.NewNews(hc, cfg.NewsBaseURL, cfg.NewsAPIKey, cfg.NewsCountry),
		Sports:       sources.NewSports(hc, cfg.SportsBaseURL, cfg.SportsAPIKey),
		Encyclopedia: sources.NewEncyclopedia(hc, cfg.WikiBaseURL),
		Clock:        sources.NewClock(sources.IndiaZone, sources.IndiaLabel),
		Conversation: chat.New(client, systemPrompt, log),
		Recorder:     rec,
		Metrics:      m,
		Logger:       log,
	})
}
