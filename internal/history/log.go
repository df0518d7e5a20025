// Package history is the append-or-overwrite-today log of rendered daily
// reports. One row per calendar day: a same-day record overwrites in place
// within a bounded lookback window, anything older is immutable history.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/internal/sheet"
	"github.com/haneulab/goal-report-service/types"
)

const (
	// SheetName is the daily table's sheet.
	SheetName = "Daily"
	// lookbackRows bounds how far back Record scans for today's row.
	lookbackRows = 500
	// listLimit caps how many entries List returns.
	listLimit = 20
)

// Headers is the daily table's fixed schema.
var Headers = []string{"RecordedAt", "Content"}

// Log records and lists daily history entries.
type Log struct {
	sheet    sheet.Store
	resolver *clock.Resolver
	logger   hclog.Logger

	// Now is the wall clock, replaceable in tests.
	Now func() time.Time
}

// NewLog wires a daily history log.
func NewLog(st sheet.Store, resolver *clock.Resolver, logger hclog.Logger) *Log {
	return &Log{sheet: st, resolver: resolver, logger: logger, Now: time.Now}
}

// Record persists a rendered report. If a row recorded today (in the fixed
// timezone) sits within the lookback window it is overwritten in place;
// otherwise a new row is appended. The bool reports an overwrite.
func (l *Log) Record(ctx context.Context, content string) (bool, error) {
	if err := l.sheet.EnsureHeader(ctx, SheetName, Headers); err != nil {
		return false, fmt.Errorf("failed to prepare daily sheet: %w", err)
	}

	now := l.Now()
	today := l.resolver.Today(now)
	stamp := now.In(l.resolver.Location()).Format(time.RFC3339)

	last, err := l.sheet.LastRowIndex(ctx, SheetName)
	if err != nil {
		return false, fmt.Errorf("failed to read daily sheet: %w", err)
	}

	if last > 1 {
		start := last - lookbackRows
		if start < 2 {
			start = 2
		}
		rows, err := l.sheet.ReadRange(ctx, SheetName, start, last-start+1)
		if err != nil {
			return false, fmt.Errorf("failed to read daily rows: %w", err)
		}
		for i := len(rows) - 1; i >= 0; i-- {
			if len(rows[i]) == 0 {
				continue
			}
			recorded, err := time.Parse(time.RFC3339, rows[i][0])
			if err != nil {
				continue
			}
			if l.resolver.DateOf(recorded) == today {
				if err := l.sheet.WriteRange(ctx, SheetName, start+i, [][]string{{stamp, content}}); err != nil {
					return false, fmt.Errorf("failed to overwrite daily row: %w", err)
				}
				return true, nil
			}
		}
	}

	if err := l.sheet.AppendRow(ctx, SheetName, []string{stamp, content}); err != nil {
		return false, fmt.Errorf("failed to append daily row: %w", err)
	}
	return false, nil
}

// List returns up to the most recent entries, newest first. Each entry's
// stored content splits at its first line break into title and trimmed
// remainder.
func (l *Log) List(ctx context.Context) ([]types.DailyHistoryEntry, error) {
	last, err := l.sheet.LastRowIndex(ctx, SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily sheet: %w", err)
	}
	if last <= 1 {
		return nil, nil
	}

	count := last - 1
	if count > listLimit {
		count = listLimit
	}
	rows, err := l.sheet.ReadRange(ctx, SheetName, last-count+1, count)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily rows: %w", err)
	}

	entries := make([]types.DailyHistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		entry := types.DailyHistoryEntry{Date: "(no date)"}
		if len(row) > 0 {
			if recorded, err := time.Parse(time.RFC3339, row[0]); err == nil {
				entry.Date = l.resolver.Stamp(recorded)
			}
		}
		if len(row) > 1 {
			title, rest, _ := strings.Cut(row[1], "\n")
			entry.Title = title
			entry.Content = strings.TrimSpace(rest)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
