package types

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TaskStatus mirrors the status values reported by the task source.
type TaskStatus string

const (
	TaskStatusNeedsAction TaskStatus = "needsAction"
	TaskStatusCompleted   TaskStatus = "completed"
)

// TaskRecord is a single task as fetched from the task source. Records are
// immutable once fetched; classification never mutates them.
type TaskRecord struct {
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	Due        *time.Time `json:"due,omitempty"`
	Completed  *time.Time `json:"completed,omitempty"`
	Updated    time.Time  `json:"updated"`
	Notes      string     `json:"notes,omitempty"`
	SourceList string     `json:"source_list,omitempty"`
}

// ReasonKind identifies why a task was included in the daily view.
type ReasonKind string

const (
	ReasonCompletedToday ReasonKind = "completed_today"
	ReasonDueToday       ReasonKind = "due_today"
	ReasonDueSoon        ReasonKind = "due_soon"
	ReasonOverdueBy      ReasonKind = "overdue_by"
	ReasonNewOrUpdated   ReasonKind = "new_or_updated"
)

// Reason is a single inclusion tag. Days carries the distance for
// due-soon/overdue tags and Date the completion date for completed tags.
type Reason struct {
	Kind ReasonKind `json:"kind"`
	Days int        `json:"days,omitempty"`
	Date string     `json:"date,omitempty"`
}

// Label renders the reason the way it appears in report lines.
func (r Reason) Label() string {
	switch r.Kind {
	case ReasonCompletedToday:
		return "Done: " + r.Date
	case ReasonDueToday:
		return "Due D-Day"
	case ReasonDueSoon:
		return fmt.Sprintf("Due D-%d", r.Days)
	case ReasonOverdueBy:
		return fmt.Sprintf("Due D+%d", r.Days)
	case ReasonNewOrUpdated:
		return "New/Updated"
	}
	return string(r.Kind)
}

// Bucket is the display section a classified task renders under.
type Bucket string

const (
	BucketDueToday     Bucket = "due_today"
	BucketDueSoon      Bucket = "due_soon"
	BucketOverdue      Bucket = "overdue"
	BucketNewOrUpdated Bucket = "new_or_updated"
	BucketCompleted    Bucket = "completed"
)

// ClassifiedTask is a task that passed the daily inclusion rules, together
// with its reasons and display bucket. Derived per call, never persisted.
type ClassifiedTask struct {
	Task    TaskRecord `json:"task"`
	Reasons []Reason   `json:"reasons"`
	Bucket  Bucket     `json:"bucket"`
}

// ReasonLabel joins all reason labels for a report line.
func (c ClassifiedTask) ReasonLabel() string {
	labels := make([]string, 0, len(c.Reasons))
	for _, r := range c.Reasons {
		labels = append(labels, r.Label())
	}
	return strings.Join(labels, ", ")
}

// WeekTask is one line of a weekly summary: a task pinned to the date that
// put it inside the week window.
type WeekTask struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes,omitempty"`
}

// TaskList identifies a named list on the task source.
type TaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TaskQuery is the paging window for a task listing call.
type TaskQuery struct {
	IncludeCompleted bool
	IncludeHidden    bool
	PageSize         int
	PageToken        string
}

// TaskPage is one page of a task listing; an empty NextPageToken ends the
// drain loop.
type TaskPage struct {
	Items         []TaskRecord
	NextPageToken string
}

// TaskSource is the external task-list service.
type TaskSource interface {
	ListTaskLists(ctx context.Context) ([]TaskList, error)
	ListTasks(ctx context.Context, listID string, q TaskQuery) (*TaskPage, error)
}
