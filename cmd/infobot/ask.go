package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ai-infobot/internal/chatbot"
)

var askCmd = &cobra.Command{
	Use:   "ask [utterance]",
	Short: "Answer a single utterance and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger.Sugar())
		if err != nil {
			return err
		}
		defer a.close()
		utterance := strings.Join(args, " ")
		s := chatbot.Session{ID: "cli", Transcript: a.sessions.Session("cli")}
		r := a.bot.Handle(cmd.Context(), s, utterance)
		fmt.Fprintln(cmd.OutOrStdout(), r.Text)
		return nil
	},
}
