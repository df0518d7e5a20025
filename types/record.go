package types

import "time"

// Source reports whether a weekly summary was served from the store or
// freshly computed.
type Source string

const (
	SourceRecomputed Source = "Recomputed"
	SourceCached     Source = "Cached"
)

// WeeklyRecord is one row of the weekly table, keyed by the Monday of the
// ISO week in canonical yyyy-MM-dd form.
type WeeklyRecord struct {
	WeekID          string    `json:"week_id"`
	Period          string    `json:"period"`
	CompletedCount  int       `json:"completed_count"`
	TodoCount       int       `json:"todo_count"`
	CompletedTasks  string    `json:"completed_tasks"`
	TodoTasks       string    `json:"todo_tasks"`
	FirstRecordedAt time.Time `json:"first_recorded_at"`
}

// DailyHistoryEntry is one listed row of the daily history log. Title is the
// first line of the stored content, Content the trimmed remainder.
type DailyHistoryEntry struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
