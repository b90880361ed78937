package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ai-infobot/internal/analytics"
	"ai-infobot/internal/auth"
	"ai-infobot/internal/config"
	"ai-infobot/internal/pending"
	"ai-infobot/internal/scheduler"
	"ai-infobot/internal/telegram"
	"ai-infobot/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web chat, plus the Telegram bot and daily report when configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger.Sugar())
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := web.New(web.Config{
		Addr:     cfg.HTTPAddr,
		Mode:     cfg.GinMode,
		Bot:      a.bot,
		Sessions: a.sessions,
		Metrics:  a.metrics,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	if cfg.TelegramBotToken != "" {
		tg, err := startTelegram(ctx, cfg, a, log)
		if err != nil {
			return err
		}
		if sched := startReports(cfg, a, tg, log); sched != nil {
			defer sched.Stop()
		}
	} else {
		log.Infof("💤 TELEGRAM_BOT_TOKEN not set, Telegram front-end disabled")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infof("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func startTelegram(ctx context.Context, cfg *config.Config, a *app, log *zap.SugaredLogger) (*telegram.Bot, error) {
	var repo auth.Repository
	if cfg.AllowlistFilePath != "" {
		r, err := auth.NewFileRepository(cfg.AllowlistFilePath)
		if err != nil {
			log.Warnf("⚠️ Allowlist file unavailable, using ALLOWED_USERS only: %v", err)
		} else {
			repo = r
		}
	}
	authSvc, err := auth.NewWithRepo(repo, cfg.AllowedUsers)
	if err != nil {
		return nil, fmt.Errorf("init auth: %w", err)
	}
	if cfg.AdminUserID == 0 && len(authSvc.List()) == 0 {
		log.Warnf("⚠️ Neither ADMIN_USER nor ALLOWED_USERS is set: every Telegram user will be denied")
	}

	var pendingRepo auth.Repository
	if cfg.PendingFilePath != "" {
		r, err := auth.NewFileRepository(cfg.PendingFilePath)
		if err != nil {
			log.Warnf("⚠️ Pending requests will not survive restarts: %v", err)
		} else {
			pendingRepo = r
		}
	}
	queue, err := pending.New(pendingRepo)
	if err != nil {
		return nil, fmt.Errorf("init pending queue: %w", err)
	}

	tg, err := telegram.New(cfg.TelegramBotToken, authSvc, queue, a.bot, a.sessions, cfg.AdminUserID, log)
	if err != nil {
		return nil, err
	}
	go tg.Start(ctx)
	return tg, nil
}

func startReports(cfg *config.Config, a *app, tg *telegram.Bot, log *zap.SugaredLogger) *scheduler.Scheduler {
	if cfg.AdminUserID == 0 || a.recorder == nil || cfg.ReportCron == "" {
		log.Infof("💤 Daily report disabled")
		return nil
	}
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		log.Warnf("⚠️ Daily report disabled, bad REPORT_TZ %q: %v", cfg.ReportTimezone, err)
		return nil
	}

	sched := scheduler.New(cfg.ReportCron, loc, log)
	sched.SetReportFunction(func(ctx context.Context) error {
		text, err := analytics.DailyReport(a.recorder, time.Now().In(loc))
		if err != nil {
			return err
		}
		return tg.SendToAdmin(text)
	})
	if err := sched.Start(); err != nil {
		log.Warnf("⚠️ Daily report disabled: %v", err)
		return nil
	}
	return sched
}
