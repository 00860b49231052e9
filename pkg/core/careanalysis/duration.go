package careanalysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// durationPattern matches "<n>" optionally followed by a unit word, e.g. "30 minutes", "1.5 hrs", "2"
var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)\s*([a-z]*)\.?$`)

// ParseDuration converts a free-text care duration into hours.
//
// Recognised forms:
//   - "<n> minutes" (also "min", "mins") → n / 60
//   - "<n> hours" (also "hour", "hr", "hrs", "h") → n
//   - "<n>" → n hours
//
// Anything else is 0. ParseDuration never fails: a bad value only zeroes its own entry.
func ParseDuration(s string) float64 {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return 0
	}

	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}

	switch match[2] {
	case "":
		return value
	case "minute", "minutes", "min", "mins":
		return value / 60
	case "hour", "hours", "hr", "hrs", "h":
		return value
	default:
		return 0
	}
}
