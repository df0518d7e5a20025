package summary

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/classify"
	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/internal/report"
	"github.com/haneulab/goal-report-service/types"
)

// DailyReporter builds today's Markdown report from the task and calendar
// sources.
type DailyReporter struct {
	collector  *Collector
	calendar   types.CalendarSource
	resolver   *clock.Resolver
	memberName string
	logger     hclog.Logger

	// Now is the wall clock, replaceable in tests.
	Now func() time.Time
}

// NewDailyReporter wires a reporter for the configured member.
func NewDailyReporter(collector *Collector, calendar types.CalendarSource, resolver *clock.Resolver, memberName string, logger hclog.Logger) *DailyReporter {
	return &DailyReporter{
		collector:  collector,
		calendar:   calendar,
		resolver:   resolver,
		memberName: memberName,
		logger:     logger,
		Now:        time.Now,
	}
}

// BuildToday fetches, classifies and formats today's report. A calendar
// failure degrades to an inline error line; a task-source failure is fatal.
func (d *DailyReporter) BuildToday(ctx context.Context) (string, error) {
	now := d.Now()
	today := d.resolver.Today(now)

	tasks, err := d.collector.Collect(ctx)
	if err != nil {
		return "", err
	}

	var events []types.CalendarEvent
	calendarErr := ""
	if d.calendar != nil {
		events, err = d.calendar.EventsForDay(ctx, today)
		if err != nil {
			d.logger.Warn("calendar fetch failed, degrading", "error", err)
			events = nil
			calendarErr = err.Error()
		}
	}
	sortEvents(events)

	return report.FormatDaily(report.DailyInput{
		MemberName:  d.memberName,
		Date:        today,
		Tasks:       classify.Daily(d.resolver, today, tasks),
		Events:      events,
		CalendarErr: calendarErr,
	}), nil
}

// sortEvents orders the schedule: all-day entries first, then by start time,
// ties kept in source order.
func sortEvents(events []types.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case a.Start == nil && b.Start == nil:
			return false
		case a.Start == nil:
			return true
		case b.Start == nil:
			return false
		}
		return a.Start.Before(*b.Start)
	})
}
