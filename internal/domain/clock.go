package domain

import "time"

// ClockLayout is the fixed-width time-of-day format used by classes.
const ClockLayout = "15:04"

// ClockString formats t as "HH:MM".
func ClockString(t time.Time) string {
	return t.Format(ClockLayout)
}

// ValidClock reports whether s is a well-formed zero-padded "HH:MM" value.
func ValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour < 24 && minute < 60
}

// ClockHour returns the integer before the colon of s.
// ok is false when s has no leading hour digits.
func ClockHour(s string) (hour int, ok bool) {
	digits := 0
	for digits < len(s) && s[digits] != ':' {
		c := s[digits]
		if c < '0' || c > '9' || digits == 2 {
			return 0, false
		}
		hour = hour*10 + int(c-'0')
		digits++
	}
	if digits == 0 || digits == len(s) {
		return 0, false
	}
	return hour, true
}
