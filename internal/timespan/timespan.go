// Package timespan parses human-readable durations such as "10s", "2 days" or
// "1.5h" into milliseconds, and adds them to epoch-second timestamps.
//
// A bare number ("1500") is interpreted as milliseconds. Units are matched
// case-insensitively; a year is 365.25 days.
package timespan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	second = 1000.0
	minute = second * 60
	hour   = minute * 60
	day    = hour * 24
	week   = day * 7
	year   = day * 365.25

	maxInputLen = 100
)

var pattern = regexp.MustCompile(`(?i)^(-?(?:\d+)?\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`)

// Parse converts text to milliseconds. The boolean is false when text does
// not follow the grammar.
func Parse(text string) (float64, bool) {
	if text == "" || len(text) > maxInputLen {
		return 0, false
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n * unitFactor(strings.ToLower(m[2])), true
}

func unitFactor(unit string) float64 {
	switch unit {
	case "years", "year", "yrs", "yr", "y":
		return year
	case "weeks", "week", "w":
		return week
	case "days", "day", "d":
		return day
	case "hours", "hour", "hrs", "hr", "h":
		return hour
	case "minutes", "minute", "mins", "min", "m":
		return minute
	case "seconds", "second", "secs", "sec", "s":
		return second
	default:
		// "", ms, msec, msecs, millisecond, milliseconds
		return 1
	}
}

// AddTo returns base plus the parsed span, in epoch seconds rounded down.
// The boolean is false when text cannot be parsed.
func AddTo(base float64, text string) (float64, bool) {
	ms, ok := Parse(text)
	if !ok {
		return 0, false
	}
	return math.Floor(base + ms/1000), true
}

// Seconds returns the parsed span in seconds without rounding.
func Seconds(text string) (float64, bool) {
	ms, ok := Parse(text)
	if !ok {
		return 0, false
	}
	return ms / 1000, true
}
