package portfolio

import (
	"fmt"
	"os"
	"time"
)

// internshipStart anchors week numbering; week 1 is the week containing the
// program start date. Overridable via INTERNSHIP_START (YYYY-MM-DD).
var internshipStart = startFromEnv()

func startFromEnv() time.Time {
	if s := os.Getenv("INTERNSHIP_START"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC)
}

// startOfWeek truncates to the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}

// weekNumber is 1-based: the program's first week is week 1.
func weekNumber(now time.Time) int {
	weeks := int(startOfWeek(now).Sub(startOfWeek(internshipStart)).Hours() / (24 * 7))
	return weeks + 1
}

// statusID is the content-addressed key for a user's weekly status: one
// document per (user, week), rewritten in place on every save.
func statusID(userID string, now time.Time) string {
	return fmt.Sprintf("week-%d-%s", weekNumber(now), userID)
}
