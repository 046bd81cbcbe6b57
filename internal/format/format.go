// Package format renders counts, durations and ages the way the UI displays them.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const day = 24 * time.Hour

// JustNow is the age shown for anything less than a minute old.
const JustNow = "Just now"

var ageMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: JustNow, DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: 30 * day, Format: "%d days %s", DivBy: day},
	{D: 60 * day, Format: "1 month %s", DivBy: 1},
	{D: 365 * day, Format: "%d months %s", DivBy: 30 * day},
	{D: 2 * 365 * day, Format: "1 year %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: 365 * day},
}

// RelativeTime renders how long before now t was, e.g. "3 days ago".
// Times in the future render as JustNow.
func RelativeTime(t, now time.Time) string {
	if t.After(now) {
		return JustNow
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", ageMagnitudes)
}

var ageUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    day,
	"week":   7 * day,
	"month":  30 * day,
	"year":   365 * day,
}

// ParseAge reads an age such as "3 weeks ago" or "Just now" back into a duration.
func ParseAge(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "just now" || s == "now" {
		return 0, true
	}

	fields := strings.Fields(strings.TrimSuffix(s, " ago"))
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	unit, ok := ageUnits[strings.TrimSuffix(fields[1], "s")]
	if !ok {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

// Compact renders n with a K or M suffix and at most one decimal, e.g. 1.2M.
func Compact(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimZero(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return trimZero(float64(n)/1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// ViewCount renders a view counter, e.g. "1.2M views".
func ViewCount(n int64) string {
	return Compact(n) + " views"
}

// Subscribers renders a subscriber counter, e.g. "422K subscribers".
func Subscribers(n int64) string {
	return Compact(n) + " subscribers"
}

// ParseCount reads a counter back from its display form. It accepts
// "1.2M views", "422K", "1,024" and plain digits.
func ParseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(math.Round(f * multiplier)), true
}

// Duration renders a length in seconds as m:ss or h:mm:ss.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	secs := seconds % 60
	if minutes < 60 {
		return strconv.Itoa(minutes) + ":" + pad2(secs)
	}
	return strconv.Itoa(minutes/60) + ":" + pad2(minutes%60) + ":" + pad2(secs)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func trimZero(f float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(f, 'f', 1, 64), ".0")
}
