package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-infobot/internal/storage"
)

// DailyStats aggregates one day of the interaction journal.
type DailyStats struct {
	Date           string         `json:"date"`
	TotalMessages  int            `json:"total_messages"`
	UniqueSessions int            `json:"unique_sessions"`
	Failures       int            `json:"failures"`
	ByIntent       map[string]int `json:"by_intent"`
	ByOutcome      map[string]int `json:"by_outcome"`
}

// AnalyzeDay counts the events that happened on targetDate's calendar day,
// in targetDate's location.
func AnalyzeDay(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:      startOfDay.Format("2006-01-02"),
		ByIntent:  make(map[string]int),
		ByOutcome: make(map[string]int),
	}
	sessions := make(map[string]struct{})

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		if ev.UserMessage == "" {
			continue
		}
		stats.TotalMessages++
		sessions[ev.SessionID] = struct{}{}
		stats.ByIntent[ev.Intent]++
		stats.ByOutcome[ev.Outcome]++
		if ev.Outcome != "" && ev.Outcome != "ok" {
			stats.Failures++
		}
	}

	stats.UniqueSessions = len(sessions)
	return stats
}

// Summary renders the stats as a short plain-text report.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Usage for %s\n", ds.Date)
	fmt.Fprintf(&b, "- Messages: %d\n", ds.TotalMessages)
	fmt.Fprintf(&b, "- Sessions: %d\n", ds.UniqueSessions)
	fmt.Fprintf(&b, "- Failures: %d\n", ds.Failures)

	if len(ds.ByIntent) > 0 {
		b.WriteString("\nBy intent:\n")
		for _, k := range sortedKeys(ds.ByIntent) {
			fmt.Fprintf(&b, "- %s: %d\n", k, ds.ByIntent[k])
		}
	}
	if ds.Failures > 0 {
		b.WriteString("\nBy outcome:\n")
		for _, k := range sortedKeys(ds.ByOutcome) {
			fmt.Fprintf(&b, "- %s: %d\n", k, ds.ByOutcome[k])
		}
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
