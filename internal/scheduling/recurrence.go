package scheduling

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frequency enumerates the supported recurrence step units.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// knownFrequencies lists the accepted frequency values for validation.
var knownFrequencies = map[Frequency]struct{}{
	FrequencyDaily:   {},
	FrequencyWeekly:  {},
	FrequencyMonthly: {},
	FrequencyYearly:  {},
}

// IsKnown reports whether the frequency is one of the named values.
func (f Frequency) IsKnown() bool {
	_, ok := knownFrequencies[f]
	return ok
}

// Pattern is the value object describing a bounded recurrence: how often a
// template repeats and how many occurrences to generate. Open-ended recurrence
// is not supported; Occurrences always bounds the series.
type Pattern struct {
	Frequency   Frequency `json:"frequency"`
	Interval    int       `json:"interval"`
	Occurrences int       `json:"occurrences"`
}

// Advance returns t moved forward by one pattern step. Daily, weekly, and
// monthly frequencies step by the configured interval. Any other frequency,
// YEARLY included, advances by exactly one day; consumers of generated series
// rely on this fallback.
func (p Pattern) Advance(t time.Time) time.Time {
	switch p.Frequency {
	case FrequencyDaily:
		return t.AddDate(0, 0, p.Interval)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7*p.Interval)
	case FrequencyMonthly:
		return t.AddDate(0, p.Interval, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Encode serializes the pattern for storage on a generated entry.
func (p Pattern) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode recurrence pattern: %w", err)
	}
	return string(raw), nil
}

// ParsePattern decodes a pattern previously stored with Encode.
func ParsePattern(raw string) (Pattern, error) {
	var pattern Pattern
	if err := json.Unmarshal([]byte(raw), &pattern); err != nil {
		return Pattern{}, fmt.Errorf("parse recurrence pattern: %w", err)
	}
	return pattern, nil
}
