package fuzzytime

import (
	"fmt"
	"time"
)

// rough "3 days ago" style strings for timestamps shown in lists.

type unit struct {
	size time.Duration
	one string
	many string
}

var units = []unit{
	{ 365 * 24 * time.Hour, "a year ago", "%d years ago" },
	{ 30 * 24 * time.Hour, "a month ago", "%d months ago" },
	{ 7 * 24 * time.Hour, "a week ago", "%d weeks ago" },
	{ 24 * time.Hour, "a day ago", "%d days ago" },
	{ time.Hour, "an hour ago", "%d hours ago" },
	{ time.Minute, "a minute ago", "%d minutes ago" },
}

func TimeSpanToFuzzyTimeString(s time.Duration) string {
	if s < 0 { return "in the future" }
	for _, u := range units {
		n := int64(s / u.size)
		if n <= 0 { continue }
		if n == 1 { return u.one }
		return fmt.Sprintf(u.many, n)
	}
	return "just now"
}

func FromTimestamp(ts int64, now time.Time) string {
	return TimeSpanToFuzzyTimeString(now.Sub(time.Unix(ts, 0)))
}
