package sources

import (
	"fmt"
	"strings"
	"time"

	"ai-infobot/internal/reply"
)

const (
	IndiaZone  = "Asia/Kolkata"
	IndiaLabel = "India"
)

// Clock answers date and time questions in one fixed zone, whatever the
// caller's locale is.
type Clock struct {
	zone  string
	label string
	now   func() time.Time
}

func NewClock(zone, label string) *Clock {
	return &Clock{zone: zone, label: label, now: time.Now}
}

// Lookup answers with the date when the utterance mentions "date", otherwise
// with the time.
func (c *Clock) Lookup(utterance string) reply.Result {
	loc, err := time.LoadLocation(c.zone)
	if err != nil {
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error fetching time/date: %v", err))
	}
	now := c.now().In(loc)

	if strings.Contains(strings.ToLower(utterance), "date") {
		return reply.Success(fmt.Sprintf("📅 Today's date in %s: %s", c.label, now.Format("January 02, 2006")))
	}
	return reply.Success(fmt.Sprintf("⏰ Current time in %s: %s", c.label, now.Format("15:04:05")))
}
