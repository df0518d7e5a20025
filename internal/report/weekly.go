package report

import (
	"fmt"
	"strings"

	"github.com/haneulab/goal-report-service/types"
)

const (
	noCompletedTasksLine = "(no completed tasks)"
	noPendingTasksLine   = "(no pending tasks)"
)

// FormatCompletedList renders the completed set of a week as the Markdown
// block stored in the weekly table.
func FormatCompletedList(items []types.WeekTask) string {
	return formatWeekList(items, "x", "Done", noCompletedTasksLine)
}

// FormatTodoList renders the todo set of a week as the Markdown block stored
// in the weekly table.
func FormatTodoList(items []types.WeekTask) string {
	return formatWeekList(items, " ", "Updated", noPendingTasksLine)
}

func formatWeekList(items []types.WeekTask, box, label, emptyLine string) string {
	if len(items) == 0 {
		return emptyLine
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- [%s] %s (%s: %s)", box, item.Title, label, item.Date)
		if block := notesBlock(item.Notes); block != "" {
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(block, "\n"))
		}
	}
	return b.String()
}

// FormatWeekly renders a weekly record, freshly computed or read back from
// the store, into the summary served to the page.
func FormatWeekly(memberName string, rec types.WeeklyRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**📊 %s's Weekly Summary (%s)**\n\n", memberName, rec.Period)
	fmt.Fprintf(&b, "✅ **Completed (%d)**\n", rec.CompletedCount)
	b.WriteString(rec.CompletedTasks)
	fmt.Fprintf(&b, "\n\n📝 **To Do (%d)**\n", rec.TodoCount)
	b.WriteString(rec.TodoTasks)
	return b.String()
}
