package contract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseHumanDuration parses durations in either Go syntax ("90s", "2h30m")
// or a loose "<number> <unit>" form ("30 seconds", "2 minutes", "1 hour",
// "7 days"). Whitespace and plural suffixes are forgiven.
func ParseHumanDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive: %q", s)
		}
		return d, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("cannot parse duration %q", s)
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("cannot parse duration %q", s)
	}

	unit := strings.TrimSuffix(fields[1], "s")
	var base time.Duration
	switch unit {
	case "second", "sec":
		base = time.Second
	case "minute", "min":
		base = time.Minute
	case "hour", "hr":
		base = time.Hour
	case "day":
		base = 24 * time.Hour
	case "week":
		base = 7 * 24 * time.Hour
	case "month":
		base = 30 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown duration unit %q", fields[1])
	}

	if n > float64(math.MaxInt64)/float64(base) {
		return 0, fmt.Errorf("duration too large: %q", s)
	}
	d := time.Duration(n * float64(base))
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	return d, nil
}

// DaysSince returns the whole number of days between then and now.
// Returns -1 when then is unknown (zero).
func DaysSince(then, now time.Time) int {
	if then.IsZero() {
		return -1
	}
	return int(now.Sub(then).Hours() / 24)
}
