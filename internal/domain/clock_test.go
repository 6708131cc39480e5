package domain

import (
	"testing"
	"testing/quick"
	"time"
)

func TestValidClock(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"08:30", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"8:30", false},
		{"08-30", false},
		{"0830", false},
		{"", false},
		{"ab:cd", false},
	}

	for _, tt := range tests {
		if got := ValidClock(tt.in); got != tt.want {
			t.Errorf("ValidClock(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClockHour(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		wantOK bool
	}{
		{"08:00", 8, true},
		{"8:00", 8, true},
		{"18:45", 18, true},
		{"00:10", 0, true},
		{":30", 0, false},
		{"0800", 0, false},
		{"123:00", 0, false},
		{"x8:00", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		hour, ok := ClockHour(tt.in)
		if ok != tt.wantOK || (ok && hour != tt.hour) {
			t.Errorf("ClockHour(%q) = (%d, %v), want (%d, %v)", tt.in, hour, ok, tt.hour, tt.wantOK)
		}
	}
}

// TestClockString_LexicalOrder_PropertyBased checks that the fixed-width
// format orders like the minutes it encodes.
func TestClockString_LexicalOrder_PropertyBased(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	f := func(a, b uint16) bool {
		ma := int(a % 1440)
		mb := int(b % 1440)
		sa := ClockString(day.Add(time.Duration(ma) * time.Minute))
		sb := ClockString(day.Add(time.Duration(mb) * time.Minute))
		if !ValidClock(sa) || !ValidClock(sb) {
			return false
		}
		return (sa < sb) == (ma < mb)
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}
