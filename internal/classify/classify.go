// Package classify decides which tasks belong to the daily and weekly views
// and why. It is pure: inputs are the fetched records plus the resolved
// dates, output is derived per call and never persisted.
package classify

import (
	"sort"
	"time"

	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/types"
)

// dueWindowDays bounds how far a due date may sit from today, in either
// direction, and still count for the daily view.
const dueWindowDays = 3

// daysBetween returns the whole-day distance from one yyyy-MM-dd date to
// another. Both sides are canonical date strings, so the difference is exact.
func daysBetween(from, to string) int {
	a, errA := time.Parse(clock.DateLayout, from)
	b, errB := time.Parse(clock.DateLayout, to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// Daily applies the inclusion rules for the "today" view. A task is included
// when any rule fires; reasons combine. Untitled tasks are dropped.
func Daily(res *clock.Resolver, today string, tasks []types.TaskRecord) []types.ClassifiedTask {
	var out []types.ClassifiedTask

	for _, task := range tasks {
		if task.Title == "" {
			continue
		}

		var reasons []types.Reason

		if task.Completed != nil {
			completedDate := res.DateOf(*task.Completed)
			if completedDate == today {
				reasons = append(reasons, types.Reason{Kind: types.ReasonCompletedToday, Date: completedDate})
			}
		}

		if task.Due != nil && task.Status != types.TaskStatusCompleted {
			diff := daysBetween(today, res.DateOf(*task.Due))
			switch {
			case diff == 0:
				reasons = append(reasons, types.Reason{Kind: types.ReasonDueToday})
			case diff > 0 && diff <= dueWindowDays:
				reasons = append(reasons, types.Reason{Kind: types.ReasonDueSoon, Days: diff})
			case diff < 0 && -diff <= dueWindowDays:
				reasons = append(reasons, types.Reason{Kind: types.ReasonOverdueBy, Days: -diff})
			}
		}

		// The updated timestamp stands in for a creation date the source
		// does not expose, so a same-day edit of an old task lands here too.
		if len(reasons) == 0 &&
			task.Status != types.TaskStatusCompleted &&
			res.DateOf(task.Updated) == today {
			reasons = append(reasons, types.Reason{Kind: types.ReasonNewOrUpdated})
		}

		if len(reasons) == 0 {
			continue
		}

		out = append(out, types.ClassifiedTask{
			Task:    task,
			Reasons: reasons,
			Bucket:  bucketFor(task, reasons),
		})
	}

	return out
}

// bucketFor assigns the display section. Completed status wins outright;
// due-related tags outrank the bare new/updated tag.
func bucketFor(task types.TaskRecord, reasons []types.Reason) types.Bucket {
	if task.Status == types.TaskStatusCompleted {
		return types.BucketCompleted
	}

	kinds := make(map[types.ReasonKind]bool, len(reasons))
	for _, r := range reasons {
		kinds[r.Kind] = true
	}

	switch {
	case kinds[types.ReasonDueToday]:
		return types.BucketDueToday
	case kinds[types.ReasonDueSoon]:
		return types.BucketDueSoon
	case kinds[types.ReasonOverdueBy]:
		return types.BucketOverdue
	case kinds[types.ReasonNewOrUpdated]:
		return types.BucketNewOrUpdated
	}
	return types.BucketCompleted
}

// Weekly splits tasks into the completed and todo sets for one week window.
// Completed tasks count by completion date, pending tasks by last update.
// Both sets come back sorted ascending by date, ties kept in fetch order.
func Weekly(res *clock.Resolver, weekStart, weekEnd string, tasks []types.TaskRecord) (completed, todo []types.WeekTask) {
	for _, task := range tasks {
		if task.Title == "" {
			continue
		}

		if task.Completed != nil {
			date := res.DateOf(*task.Completed)
			if date >= weekStart && date <= weekEnd {
				completed = append(completed, types.WeekTask{Title: task.Title, Date: date, Notes: task.Notes})
			}
		}

		if task.Status != types.TaskStatusCompleted {
			date := res.DateOf(task.Updated)
			if date >= weekStart && date <= weekEnd {
				todo = append(todo, types.WeekTask{Title: task.Title, Date: date, Notes: task.Notes})
			}
		}
	}

	sort.SliceStable(completed, func(i, j int) bool { return completed[i].Date < completed[j].Date })
	sort.SliceStable(todo, func(i, j int) bool { return todo[i].Date < todo[j].Date })
	return completed, todo
}
