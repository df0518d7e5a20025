package report

import (
	"strings"
	"testing"
	"time"

	"github.com/haneulab/goal-report-service/types"
)

func timeAt(hour, min int) *time.Time {
	t := time.Date(2024, 6, 10, hour, min, 0, 0, time.UTC)
	return &t
}

func TestFormatDailyLiteralOutput(t *testing.T) {
	in := DailyInput{
		MemberName: "Jane",
		Date:       "2024-06-10",
		Events: []types.CalendarEvent{
			{Start: timeAt(9, 0), End: timeAt(10, 0), Title: "Standup"},
		},
		Tasks: []types.ClassifiedTask{
			{
				Task:    types.TaskRecord{Title: "Ship report"},
				Reasons: []types.Reason{{Kind: types.ReasonDueToday}},
				Bucket:  types.BucketDueToday,
			},
			{
				Task:    types.TaskRecord{Title: "Review PR", Status: types.TaskStatusCompleted},
				Reasons: []types.Reason{{Kind: types.ReasonCompletedToday, Date: "2024-06-10"}},
				Bucket:  types.BucketCompleted,
			},
		},
	}

	want := "**Jane's Daily List (2024-06-10)** 🗓️\n" +
		"\n**📅 Schedule**\n" +
		"- [09:00~10:00] Standup\n" +
		"\n**🔥 Due Today**\n" +
		"- [ ] Ship report (Due D-Day)\n" +
		"\n**✅ Completed**\n" +
		"- [x] Review PR (Done: 2024-06-10)"

	if got := FormatDaily(in); got != want {
		t.Errorf("Unexpected daily output.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestFormatDailyBucketOrder(t *testing.T) {
	in := DailyInput{
		MemberName: "Jane",
		Date:       "2024-06-10",
		Tasks: []types.ClassifiedTask{
			{Task: types.TaskRecord{Title: "C", Status: types.TaskStatusCompleted}, Reasons: []types.Reason{{Kind: types.ReasonCompletedToday, Date: "2024-06-10"}}, Bucket: types.BucketCompleted},
			{Task: types.TaskRecord{Title: "N"}, Reasons: []types.Reason{{Kind: types.ReasonNewOrUpdated}}, Bucket: types.BucketNewOrUpdated},
			{Task: types.TaskRecord{Title: "O"}, Reasons: []types.Reason{{Kind: types.ReasonOverdueBy, Days: 1}}, Bucket: types.BucketOverdue},
			{Task: types.TaskRecord{Title: "S"}, Reasons: []types.Reason{{Kind: types.ReasonDueSoon, Days: 2}}, Bucket: types.BucketDueSoon},
			{Task: types.TaskRecord{Title: "D"}, Reasons: []types.Reason{{Kind: types.ReasonDueToday}}, Bucket: types.BucketDueToday},
		},
	}

	out := FormatDaily(in)
	order := []string{"🔥 Due Today", "⏰ Due Soon", "⚠️ Overdue", "📝 New/Updated", "✅ Completed"}
	last := -1
	for _, label := range order {
		idx := strings.Index(out, label)
		if idx < 0 {
			t.Fatalf("Missing section %q in output:\n%s", label, out)
		}
		if idx < last {
			t.Errorf("Section %q out of order", label)
		}
		last = idx
	}
}

func TestFormatDailyEmpty(t *testing.T) {
	out := FormatDaily(DailyInput{MemberName: "Jane", Date: "2024-06-10"})
	want := "**Jane's Daily List (2024-06-10)** 🗓️\n\n(no tasks or events for today)"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestFormatDailyNoEventsLine(t *testing.T) {
	in := DailyInput{
		MemberName: "Jane",
		Date:       "2024-06-10",
		Tasks: []types.ClassifiedTask{
			{Task: types.TaskRecord{Title: "D"}, Reasons: []types.Reason{{Kind: types.ReasonDueToday}}, Bucket: types.BucketDueToday},
		},
	}
	if out := FormatDaily(in); !strings.Contains(out, "- (no events)") {
		t.Errorf("Expected '(no events)' line, got:\n%s", out)
	}
}

func TestFormatDailyCalendarErrorDegrades(t *testing.T) {
	in := DailyInput{
		MemberName:  "Jane",
		Date:        "2024-06-10",
		CalendarErr: "calendar service returned status 503",
	}
	out := FormatDaily(in)
	if !strings.Contains(out, "- (calendar unavailable: calendar service returned status 503)") {
		t.Errorf("Expected inline calendar error, got:\n%s", out)
	}
}

func TestFormatDailyAllDayEvent(t *testing.T) {
	in := DailyInput{
		MemberName: "Jane",
		Date:       "2024-06-10",
		Events:     []types.CalendarEvent{{AllDay: true, Title: "Holiday"}},
	}
	if out := FormatDaily(in); !strings.Contains(out, "- [all-day] Holiday") {
		t.Errorf("Expected all-day line, got:\n%s", out)
	}
}

func TestExcerptNotesLineLimit(t *testing.T) {
	line := strings.Repeat("a", 50)
	notes := strings.Repeat(line+"\n", 7) + line // 8 lines of 50 chars

	got, truncated := excerptNotes(notes)
	if !truncated {
		t.Fatal("Expected truncation")
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Errorf("Expected 5 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if len(l) != 50 {
			t.Errorf("Line %d: expected 50 chars, got %d", i, len(l))
		}
	}
}

func TestExcerptNotesCharLimit(t *testing.T) {
	notes := strings.Repeat("b", 400)

	got, truncated := excerptNotes(notes)
	if !truncated {
		t.Fatal("Expected truncation")
	}
	if len([]rune(got)) != 300 {
		t.Errorf("Expected 300 chars, got %d", len([]rune(got)))
	}
}

func TestExcerptNotesUnchangedWhenSmall(t *testing.T) {
	notes := "one line\nanother line"
	got, truncated := excerptNotes(notes)
	if truncated || got != notes {
		t.Errorf("Expected notes unchanged, got %q (truncated=%v)", got, truncated)
	}
}

func TestNotesBlockAppendsEllipsis(t *testing.T) {
	block := notesBlock(strings.Repeat("c", 400))
	if !strings.Contains(block, "…") {
		t.Errorf("Expected ellipsis marker in block:\n%s", block)
	}
	if !strings.HasPrefix(block, "  ```\n") || !strings.HasSuffix(block, "  ```\n") {
		t.Errorf("Expected fenced block, got:\n%s", block)
	}
}

func TestFormatWeeklyLiteralOutput(t *testing.T) {
	rec := types.WeeklyRecord{
		WeekID:         "2024-06-10",
		Period:         "2024-06-10(Mon) ~ 2024-06-16(Sun)",
		CompletedCount: 1,
		TodoCount:      0,
		CompletedTasks: "- [x] Ship (Done: 2024-06-11)",
		TodoTasks:      "(no pending tasks)",
	}

	want := "**📊 Jane's Weekly Summary (2024-06-10(Mon) ~ 2024-06-16(Sun))**\n\n" +
		"✅ **Completed (1)**\n" +
		"- [x] Ship (Done: 2024-06-11)\n\n" +
		"📝 **To Do (0)**\n" +
		"(no pending tasks)"

	if got := FormatWeekly("Jane", rec); got != want {
		t.Errorf("Unexpected weekly output.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestFormatWeekLists(t *testing.T) {
	items := []types.WeekTask{
		{Title: "One", Date: "2024-06-11"},
		{Title: "Two", Date: "2024-06-12"},
	}

	want := "- [x] One (Done: 2024-06-11)\n- [x] Two (Done: 2024-06-12)"
	if got := FormatCompletedList(items); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	want = "- [ ] One (Updated: 2024-06-11)\n- [ ] Two (Updated: 2024-06-12)"
	if got := FormatTodoList(items); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := FormatCompletedList(nil); got != "(no completed tasks)" {
		t.Errorf("Expected empty marker, got %q", got)
	}
	if got := FormatTodoList(nil); got != "(no pending tasks)" {
		t.Errorf("Expected empty marker, got %q", got)
	}
}
