package types

import (
	"context"
	"time"
)

// CalendarEvent is a single event on the day's schedule. Start and End are
// nil for all-day events.
type CalendarEvent struct {
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	AllDay bool       `json:"all_day"`
	Title  string     `json:"title"`
}

// CalendarSource is the external calendar service. Implementations return
// events overlapping the given fixed-timezone calendar day, ordered by start
// time.
type CalendarSource interface {
	EventsForDay(ctx context.Context, day string) ([]CalendarEvent, error)
}
