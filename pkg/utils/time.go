package utils

import "time"

// FormatInstant renders a time for persistence. RFC3339 with nanoseconds keeps
// store ordering keys faithful to sub-second creation times.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseInstant parses a persisted instant.
func ParseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
