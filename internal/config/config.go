package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings. Groq speaks the OpenAI wire protocol, so it goes through the openai provider.
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey        string      `env:"GROQ_API_KEY"`
	LLMBaseURL       string      `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel         string      `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Data providers
	WeatherAPIKey  string `env:"WEATHER_API_KEY"`
	WeatherBaseURL string `env:"WEATHER_BASE_URL" envDefault:"https://api.openweathermap.org"`
	DefaultCity    string `env:"DEFAULT_CITY" envDefault:"Hyderabad"`
	NewsAPIKey     string `env:"NEWS_API_KEY"`
	NewsBaseURL    string `env:"NEWS_BASE_URL" envDefault:"https://newsapi.org"`
	NewsCountry    string `env:"NEWS_COUNTRY" envDefault:"in"`
	SportsAPIKey   string `env:"SPORTS_API_KEY" envDefault:"123"`
	SportsBaseURL  string `env:"SPORTS_BASE_URL" envDefault:"https://www.thesportsdb.com"`
	WikiBaseURL    string `env:"WIKI_BASE_URL" envDefault:"https://en.wikipedia.org"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Web surface
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":5000"`
	GinMode     string `env:"GIN_MODE" envDefault:"release"`
	MaxSessions int    `env:"MAX_SESSIONS" envDefault:"1024"`

	// Telegram front-end (optional)
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`
	ReportCron       string  `env:"REPORT_CRON" envDefault:"0 21 * * *"`
	ReportTimezone   string  `env:"REPORT_TZ" envDefault:"Asia/Kolkata"`

	// Storage
	AllowlistFilePath string `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`
	PendingFilePath   string `env:"PENDING_FILE_PATH" envDefault:"data/pending.json"`
	LogFilePath       string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxSessions <= 0 {
		return nil, fmt.Errorf("MAX_SESSIONS must be positive, got %d", cfg.MaxSessions)
	}
	return cfg, nil
}
