package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ai-infobot/internal/analytics"
	"ai-infobot/internal/storage"
)

var (
	reportDate string
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the usage summary for one day of the interaction journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LogFilePath == "" {
			return errors.New("LOG_FILE_PATH is not set")
		}
		loc, err := time.LoadLocation(cfg.ReportTimezone)
		if err != nil {
			return fmt.Errorf("bad REPORT_TZ: %w", err)
		}

		day := time.Now().In(loc)
		if reportDate != "" {
			day, err = time.ParseInLocation("2006-01-02", reportDate, loc)
			if err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}
		}

		rec, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			return err
		}
		defer rec.Close()
		if !reportJSON {
			text, err := analytics.DailyReport(rec, day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}

		events, err := rec.LoadInteractions()
		if err != nil {
			return err
		}
		out, err := analytics.AnalyzeDay(events, day).ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to summarise, YYYY-MM-DD (default: today)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the stats as JSON")
}
