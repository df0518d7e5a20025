// Package report renders classified tasks and calendar events into stable
// Markdown. Section order and label text are fixed; tests assert on literal
// output.
package report

import (
	"fmt"
	"strings"

	"github.com/haneulab/goal-report-service/types"
)

const timeOfDayLayout = "15:04"

// bucketOrder fixes the rendering order of the daily sections.
var bucketOrder = []types.Bucket{
	types.BucketDueToday,
	types.BucketDueSoon,
	types.BucketOverdue,
	types.BucketNewOrUpdated,
	types.BucketCompleted,
}

var bucketLabels = map[types.Bucket]string{
	types.BucketDueToday:     "🔥 Due Today",
	types.BucketDueSoon:      "⏰ Due Soon",
	types.BucketOverdue:      "⚠️ Overdue",
	types.BucketNewOrUpdated: "📝 New/Updated",
	types.BucketCompleted:    "✅ Completed",
}

// DailyInput carries everything the daily formatter needs. CalendarErr, when
// set, replaces the event list with an inline error line so a calendar
// outage never fails the report.
type DailyInput struct {
	MemberName  string
	Date        string
	Tasks       []types.ClassifiedTask
	Events      []types.CalendarEvent
	CalendarErr string
}

// FormatDaily renders the daily report.
func FormatDaily(in DailyInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s's Daily List (%s)** 🗓️\n", in.MemberName, in.Date)

	if len(in.Tasks) == 0 && len(in.Events) == 0 && in.CalendarErr == "" {
		b.WriteString("\n(no tasks or events for today)")
		return b.String()
	}

	b.WriteString("\n**📅 Schedule**\n")
	switch {
	case in.CalendarErr != "":
		fmt.Fprintf(&b, "- (calendar unavailable: %s)\n", in.CalendarErr)
	case len(in.Events) == 0:
		b.WriteString("- (no events)\n")
	default:
		for _, ev := range in.Events {
			b.WriteString(formatEventLine(ev))
		}
	}

	for _, bucket := range bucketOrder {
		var lines strings.Builder
		for _, task := range in.Tasks {
			if task.Bucket != bucket {
				continue
			}
			box := " "
			if bucket == types.BucketCompleted {
				box = "x"
			}
			fmt.Fprintf(&lines, "- [%s] %s (%s)\n", box, task.Task.Title, task.ReasonLabel())
			lines.WriteString(notesBlock(task.Task.Notes))
		}
		if lines.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s**\n", bucketLabels[bucket])
		b.WriteString(lines.String())
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatEventLine renders one schedule line: [HH:mm~HH:mm] for timed events,
// [all-day] otherwise.
func formatEventLine(ev types.CalendarEvent) string {
	if ev.AllDay || ev.Start == nil {
		return fmt.Sprintf("- [all-day] %s\n", ev.Title)
	}
	end := ""
	if ev.End != nil {
		end = ev.End.Format(timeOfDayLayout)
	}
	return fmt.Sprintf("- [%s~%s] %s\n", ev.Start.Format(timeOfDayLayout), end, ev.Title)
}
