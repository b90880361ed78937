package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ai-infobot/internal/intent"
	"ai-infobot/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the respond and classify tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := logger.Sugar()
		a, err := newApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.close()
		return mcpserver.New(a.bot, intent.NewDefault(), a.sessions, log).Run(ctx, version)
	},
}
