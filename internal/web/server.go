package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/history"
	"ai-infobot/internal/metrics"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the browser-facing surface: one static page and a JSON chat endpoint.
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	bot      *chatbot.Bot
	sessions *history.Manager
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	started  time.Time
}

type Config struct {
	Addr     string
	Mode     string
	Bot      *chatbot.Bot
	Sessions *history.Manager
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
}

func New(cfg Config) (*Server, error) {
	if cfg.Bot == nil || cfg.Sessions == nil {
		return nil, errors.New("web: bot and sessions are required")
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		engine:   gin.New(),
		bot:      cfg.Bot,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		log:      log,
		started:  time.Now(),
	}
	srv.engine.Use(gin.Recovery())
	srv.engine.SetHTMLTemplate(tmpl)

	if srv.metrics != nil {
		srv.metrics.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "infobot",
			Name:      "sessions_active",
			Help:      "Sessions currently holding a transcript",
		}, func() float64 { return float64(srv.sessions.Len()) }))
	}

	srv.mapHandlers()
	srv.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.engine,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *Server) mapHandlers() {
	s.engine.GET("/", s.index)
	s.engine.POST("/chat", s.chat)
	s.engine.POST("/reset", s.reset)
	s.engine.GET("/healthz", s.health)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Start() error {
	s.log.Infof("🌐 Starting web server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
