package domain

import "time"

// Professor owns a class
type Professor struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	PhotoURL string `json:"photo_url,omitempty" yaml:"photo_url"`
}

// ScheduledItem represents a class held on a given weekday.
// StartTime and EndTime are zero-padded 24h "HH:MM" strings, so lexical
// order equals chronological order within one day.
type ScheduledItem struct {
	ID        string    `json:"id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday
	Subject   string    `json:"subject"`
	Lab       string    `json:"lab"`
	Course    string    `json:"course,omitempty"`
	Professor Professor `json:"professor"`
}

// NewsType selects how a news item is rendered
type NewsType string

const (
	NewsText  NewsType = "text"
	NewsImage NewsType = "image"
)

// DefaultNewsDuration is the dwell time used when a news item has none.
const DefaultNewsDuration = 10

// NewsItem represents an announcement shown in the news rotation
type NewsItem struct {
	ID           string     `json:"id"`
	Type         NewsType   `json:"type"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Duration     int        `json:"duration"` // seconds
	Active       bool       `json:"active"`
	PublishStart time.Time  `json:"publish_start"`
	PublishEnd   *time.Time `json:"publish_end,omitempty"` // nil means never expires
	Course       string     `json:"course,omitempty"`
	Source       string     `json:"source,omitempty"` // feed URL for imported items
	CreatedAt    time.Time  `json:"created_at"`
}

// DwellSeconds returns the item's dwell time, falling back to
// DefaultNewsDuration for missing or non-positive values.
func (n NewsItem) DwellSeconds() int {
	if n.Duration <= 0 {
		return DefaultNewsDuration
	}
	return n.Duration
}

// Shift is a fixed segment of the day
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// Label returns the display string for the shift.
func (s Shift) Label() string {
	switch s {
	case ShiftMorning:
		return "Morning"
	case ShiftAfternoon:
		return "Afternoon"
	case ShiftNight:
		return "Night"
	default:
		return ""
	}
}

// NewsStatus is the single status label of a news row
type NewsStatus string

const (
	NewsDisplaying NewsStatus = "displaying"
	NewsScheduled  NewsStatus = "scheduled"
	NewsExpired    NewsStatus = "expired"
	NewsInactive   NewsStatus = "inactive"
)

// NewsStats summarizes a news list. Buckets are counted independently,
// so one item may contribute to several of them.
type NewsStats struct {
	Displaying int `json:"displaying"`
	Inactive   int `json:"inactive"`
	Expired    int `json:"expired"`
	Scheduled  int `json:"scheduled"`
}
