package pipeline

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999Z",
	time.RFC3339Nano,
}

// ParseTimestamp parses a provider timestamp into UTC. Whole and fractional
// second variants are accepted.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, Errorf("no valid date format found for %q", raw)
}

// ParseSpacedTimestamp parses "YYYY-MM-DD HH:MM:SS[.fff]" values, which some
// feeds use inside qualifiers.
func ParseSpacedTimestamp(raw string) (time.Time, error) {
	value := strings.Replace(strings.TrimSpace(raw), " ", "T", 1)
	if !strings.HasSuffix(value, "Z") {
		value += "Z"
	}
	return ParseTimestamp(value)
}
