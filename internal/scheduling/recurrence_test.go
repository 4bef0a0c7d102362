package scheduling

import (
	"testing"
	"time"
)

func TestPattern_Advance(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		pattern Pattern
		want    time.Time
	}{
		{"daily", Pattern{Frequency: FrequencyDaily, Interval: 1}, base.AddDate(0, 0, 1)},
		{"every third day", Pattern{Frequency: FrequencyDaily, Interval: 3}, base.AddDate(0, 0, 3)},
		{"weekly", Pattern{Frequency: FrequencyWeekly, Interval: 1}, base.AddDate(0, 0, 7)},
		{"biweekly", Pattern{Frequency: FrequencyWeekly, Interval: 2}, base.AddDate(0, 0, 14)},
		{"monthly", Pattern{Frequency: FrequencyMonthly, Interval: 1}, base.AddDate(0, 1, 0)},
		{"yearly falls back to one day", Pattern{Frequency: FrequencyYearly, Interval: 1}, base.AddDate(0, 0, 1)},
		{"unknown frequency falls back to one day", Pattern{Frequency: "HOURLY", Interval: 5}, base.AddDate(0, 0, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.pattern.Advance(base); !got.Equal(tc.want) {
				t.Fatalf("Advance(%v) = %v, want %v", base, got, tc.want)
			}
		})
	}
}

func TestFrequency_IsKnown(t *testing.T) {
	t.Parallel()

	for _, f := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly} {
		if !f.IsKnown() {
			t.Errorf("expected %s to be known", f)
		}
	}
	if Frequency("HOURLY").IsKnown() {
		t.Error("HOURLY should not be a known frequency")
	}
	if Frequency("").IsKnown() {
		t.Error("empty frequency should not be known")
	}
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	original := Pattern{Frequency: FrequencyWeekly, Interval: 2, Occurrences: 6}
	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := ParsePattern(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != original {
		t.Fatalf("parsed %+v, want %+v", parsed, original)
	}

	if _, err := ParsePattern("not json"); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
