package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/types"
)

// pagingSource serves tasks per list in fixed-size pages.
type pagingSource struct {
	lists    []types.TaskList
	byList   map[string][]types.TaskRecord
	pageSize int
	listErr  error

	taskCalls int
}

func (p *pagingSource) ListTaskLists(ctx context.Context) ([]types.TaskList, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.lists, nil
}

func (p *pagingSource) ListTasks(ctx context.Context, listID string, q types.TaskQuery) (*types.TaskPage, error) {
	p.taskCalls++

	tasks := p.byList[listID]
	start := 0
	if q.PageToken != "" {
		fmt.Sscanf(q.PageToken, "%d", &start)
	}

	end := start + p.pageSize
	if end > len(tasks) {
		end = len(tasks)
	}

	page := &types.TaskPage{Items: tasks[start:end]}
	if end < len(tasks) {
		page.NextPageToken = fmt.Sprintf("%d", end)
	}
	return page, nil
}

func makeTasks(prefix string, n int) []types.TaskRecord {
	tasks := make([]types.TaskRecord, n)
	for i := range tasks {
		tasks[i] = types.TaskRecord{Title: fmt.Sprintf("%s-%d", prefix, i), Status: types.TaskStatusNeedsAction}
	}
	return tasks
}

func TestCollectDrainsAllPages(t *testing.T) {
	src := &pagingSource{
		lists:    []types.TaskList{{ID: "l1", Title: "Goals"}},
		byList:   map[string][]types.TaskRecord{"l1": makeTasks("g", 7)},
		pageSize: 3,
	}
	c := NewCollector(src, []string{"Goals"}, hclog.NewNullLogger())

	tasks, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(tasks) != 7 {
		t.Fatalf("Expected 7 tasks across pages, got %d", len(tasks))
	}
	if src.taskCalls != 3 {
		t.Errorf("Expected 3 page fetches, got %d", src.taskCalls)
	}
	if tasks[0].Title != "g-0" || tasks[6].Title != "g-6" {
		t.Errorf("Expected fetch order preserved, got first %q last %q", tasks[0].Title, tasks[6].Title)
	}
	for _, task := range tasks {
		if task.SourceList != "Goals" {
			t.Fatalf("Expected source list tag, got %q", task.SourceList)
		}
	}
}

func TestCollectUnionsConfiguredLists(t *testing.T) {
	src := &pagingSource{
		lists: []types.TaskList{
			{ID: "l1", Title: "Goals"},
			{ID: "l2", Title: "Chores"},
			{ID: "l3", Title: "Unrelated"},
		},
		byList: map[string][]types.TaskRecord{
			"l1": makeTasks("g", 2),
			"l2": makeTasks("c", 1),
			"l3": makeTasks("u", 5),
		},
		pageSize: 10,
	}
	c := NewCollector(src, []string{"Goals", "Chores"}, hclog.NewNullLogger())

	tasks, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks from the configured lists, got %d", len(tasks))
	}
	if tasks[2].SourceList != "Chores" {
		t.Errorf("Expected list order preserved, got %q", tasks[2].SourceList)
	}
}

func TestCollectSkipsMissingList(t *testing.T) {
	src := &pagingSource{
		lists:    []types.TaskList{{ID: "l1", Title: "Goals"}},
		byList:   map[string][]types.TaskRecord{"l1": makeTasks("g", 2)},
		pageSize: 10,
	}
	c := NewCollector(src, []string{"Goals", "Missing"}, hclog.NewNullLogger())

	tasks, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected the missing list to be skipped, got %d tasks", len(tasks))
	}
}

func TestCollectFailsWhenSourceDown(t *testing.T) {
	src := &pagingSource{listErr: errors.New("connection refused")}
	c := NewCollector(src, []string{"Goals"}, hclog.NewNullLogger())

	_, err := c.Collect(context.Background())
	if err == nil {
		t.Fatal("Expected an error when the task service is unreachable")
	}
	if !strings.Contains(err.Error(), "task service unavailable") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// fakeCalendar returns fixed events or a fixed error.
type fakeCalendar struct {
	events []types.CalendarEvent
	err    error
}

func (f *fakeCalendar) EventsForDay(ctx context.Context, day string) ([]types.CalendarEvent, error) {
	return f.events, f.err
}

func newTestReporter(t *testing.T, src types.TaskSource, cal types.CalendarSource) *DailyReporter {
	t.Helper()
	resolver, err := clock.NewResolver("Asia/Seoul")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	logger := hclog.NewNullLogger()
	collector := NewCollector(src, []string{"Goals"}, logger)
	r := NewDailyReporter(collector, cal, resolver, "Jane", logger)

	kst, _ := time.LoadLocation("Asia/Seoul")
	r.Now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, kst) }
	return r
}

func TestBuildTodayEmpty(t *testing.T) {
	src := &pagingSource{
		lists:    []types.TaskList{{ID: "l1", Title: "Goals"}},
		pageSize: 10,
	}
	r := newTestReporter(t, src, &fakeCalendar{})

	content, err := r.BuildToday(context.Background())
	if err != nil {
		t.Fatalf("BuildToday failed: %v", err)
	}
	want := "**Jane's Daily List (2024-06-10)** 🗓️\n\n(no tasks or events for today)"
	if content != want {
		t.Errorf("Expected %q, got %q", want, content)
	}
}

func TestBuildTodayCalendarDegrades(t *testing.T) {
	kst, _ := time.LoadLocation("Asia/Seoul")
	due := time.Date(2024, 6, 10, 12, 0, 0, 0, kst)

	src := &pagingSource{
		lists: []types.TaskList{{ID: "l1", Title: "Goals"}},
		byList: map[string][]types.TaskRecord{
			"l1": {{Title: "Ship", Status: types.TaskStatusNeedsAction, Due: &due}},
		},
		pageSize: 10,
	}
	r := newTestReporter(t, src, &fakeCalendar{err: errors.New("status 503")})

	content, err := r.BuildToday(context.Background())
	if err != nil {
		t.Fatalf("Expected calendar failure to degrade, got error: %v", err)
	}
	if !strings.Contains(content, "- (calendar unavailable: status 503)") {
		t.Errorf("Expected inline calendar error, got:\n%s", content)
	}
	if !strings.Contains(content, "- [ ] Ship (Due D-Day)") {
		t.Errorf("Expected task line to survive calendar failure, got:\n%s", content)
	}
}

func TestBuildTodayTaskFailureIsFatal(t *testing.T) {
	src := &pagingSource{listErr: errors.New("boom")}
	r := newTestReporter(t, src, &fakeCalendar{})

	if _, err := r.BuildToday(context.Background()); err == nil {
		t.Fatal("Expected task source failure to fail the build")
	}
}

func TestSortEventsAllDayFirst(t *testing.T) {
	at := func(hour int) *time.Time {
		v := time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
		return &v
	}

	events := []types.CalendarEvent{
		{Start: at(14), Title: "Late"},
		{AllDay: true, Title: "Holiday"},
		{Start: at(9), Title: "Early"},
	}
	sortEvents(events)

	want := []string{"Holiday", "Early", "Late"}
	for i, title := range want {
		if events[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, events[i].Title)
		}
	}
}
