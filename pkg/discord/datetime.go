package discord

import (
	"fmt"
	"strings"
	"time"
)

var deadlineLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02.01.2006 15:04",
}

// ParseDeadline reads a deadline in loc. An empty string is no deadline (zero time).
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q: expected YYYY-MM-DD[ HH:MM] or DD.MM.YYYY[ HH:MM]", s)
}

func FormatDeadline(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
