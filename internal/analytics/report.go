package analytics

import (
	"fmt"
	"time"

	"ai-infobot/internal/storage"
)

// DailyReport loads the journal and summarises the calendar day of day.
func DailyReport(rec storage.Recorder, day time.Time) (string, error) {
	events, err := rec.LoadInteractions()
	if err != nil {
		return "", fmt.Errorf("load interactions: %w", err)
	}
	return AnalyzeDay(events, day).Summary(), nil
}
