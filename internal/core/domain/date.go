package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate reads a calendar day. Plain dates and full timestamps are
// accepted; timestamps are reduced to their UTC day. The boolean is false for
// anything that cannot be read as a date.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to midnight UTC of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
