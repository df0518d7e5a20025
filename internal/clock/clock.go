// Package clock resolves instants into calendar dates in the service's fixed
// timezone. All functions take "now" as a parameter so callers stay
// deterministic under test.
package clock

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical yyyy-MM-dd form used as store keys.
	DateLayout = "2006-01-02"
	// PeriodLayout is the human-readable day form used in week periods.
	PeriodLayout = "2006-01-02(Mon)"
	// StampLayout is the form used for listed history timestamps.
	StampLayout = "2006-01-02 15:04:05"
)

// Resolver converts instants into dates in one fixed timezone.
type Resolver struct {
	loc *time.Location
}

// NewResolver loads the given IANA timezone.
func NewResolver(timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{loc: loc}, nil
}

// Location returns the fixed timezone.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Today formats now as yyyy-MM-dd in the fixed timezone.
func (r *Resolver) Today(now time.Time) string {
	return now.In(r.loc).Format(DateLayout)
}

// DateOf formats an arbitrary instant as yyyy-MM-dd in the fixed timezone.
func (r *Resolver) DateOf(t time.Time) string {
	return t.In(r.loc).Format(DateLayout)
}

// Stamp formats an instant as yyyy-MM-dd HH:mm:ss in the fixed timezone.
func (r *Resolver) Stamp(t time.Time) string {
	return t.In(r.loc).Format(StampLayout)
}

// mondayTime returns the Monday on or before now+weekOffset weeks, at the
// local calendar date. Sunday maps back six days.
func (r *Resolver) mondayTime(now time.Time, weekOffset int) time.Time {
	t := now.In(r.loc).AddDate(0, 0, weekOffset*7)
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, -6)
	}
	return t.AddDate(0, 0, -(int(t.Weekday()) - 1))
}

// MondayOf returns the Monday of the week selected by weekOffset (0 is the
// current week, negative past, positive future) as yyyy-MM-dd.
func (r *Resolver) MondayOf(now time.Time, weekOffset int) string {
	return r.mondayTime(now, weekOffset).Format(DateLayout)
}

// WeekRange returns the Monday and Sunday of the selected week as
// yyyy-MM-dd strings.
func (r *Resolver) WeekRange(now time.Time, weekOffset int) (string, string) {
	monday := r.mondayTime(now, weekOffset)
	return monday.Format(DateLayout), monday.AddDate(0, 0, 6).Format(DateLayout)
}

// Period returns the human-readable range string for the selected week.
func (r *Resolver) Period(now time.Time, weekOffset int) string {
	monday := r.mondayTime(now, weekOffset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(PeriodLayout) + " ~ " + sunday.Format(PeriodLayout)
}

// DayWindow returns the half-open [start, end) instants covering one fixed-
// timezone calendar day given as yyyy-MM-dd.
func (r *Resolver) DayWindow(day string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, day, r.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return start, start.AddDate(0, 0, 1), nil
}
