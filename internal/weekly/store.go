// Package weekly reconciles freshly computed week aggregates against the
// persisted weekly table. The table stays sorted ascending by week id and
// duplicate-free after every write; the whole read-decide-write sequence
// runs under a named lock.
package weekly

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/classify"
	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/internal/lock"
	"github.com/haneulab/goal-report-service/internal/report"
	"github.com/haneulab/goal-report-service/internal/sheet"
	"github.com/haneulab/goal-report-service/internal/summary"
	"github.com/haneulab/goal-report-service/types"
)

const (
	// SheetName is the weekly table's sheet.
	SheetName = "Weekly"
	lockName  = "weekly"
)

// Headers is the weekly table's fixed schema.
var Headers = []string{"WeekID", "Period", "CompletedCount", "TodoCount", "CompletedTasks", "TodoTasks", "FirstRecordedAt"}

// Store serves weekly summaries, recomputing the current week on every call
// and serving past weeks from the table once present.
type Store struct {
	sheet      sheet.Store
	locker     lock.Locker
	collector  *summary.Collector
	resolver   *clock.Resolver
	memberName string
	lockWait   time.Duration
	logger     hclog.Logger

	// Now is the wall clock, replaceable in tests.
	Now func() time.Time
}

// NewStore wires a weekly record store.
func NewStore(st sheet.Store, locker lock.Locker, collector *summary.Collector, resolver *clock.Resolver, memberName string, lockWait time.Duration, logger hclog.Logger) *Store {
	return &Store{
		sheet:      st,
		locker:     locker,
		collector:  collector,
		resolver:   resolver,
		memberName: memberName,
		lockWait:   lockWait,
		logger:     logger,
		Now:        time.Now,
	}
}

// GetOrCompute returns the formatted summary for the selected week. The
// current week is always recomputed and upserted; other weeks are served
// from the table when present, otherwise computed once and persisted.
func (s *Store) GetOrCompute(ctx context.Context, weekOffset int) (string, types.Source, error) {
	now := s.Now()
	weekID := s.resolver.MondayOf(now, weekOffset)

	release, err := s.locker.Acquire(ctx, lockName, s.lockWait)
	if err != nil {
		return "", "", fmt.Errorf("failed to acquire weekly lock: %w", err)
	}
	defer release()

	if err := s.sheet.EnsureHeader(ctx, SheetName, Headers); err != nil {
		return "", "", fmt.Errorf("failed to prepare weekly sheet: %w", err)
	}

	if weekOffset != 0 {
		rec, found, err := s.find(ctx, weekID)
		if err != nil {
			return "", "", err
		}
		if found {
			return report.FormatWeekly(s.memberName, rec), types.SourceCached, nil
		}
	}

	rec, err := s.compute(ctx, now, weekOffset, weekID)
	if err != nil {
		return "", "", err
	}
	if err := s.upsert(ctx, rec); err != nil {
		return "", "", err
	}

	return report.FormatWeekly(s.memberName, rec), types.SourceRecomputed, nil
}

// compute builds a fresh weekly record from the task source.
func (s *Store) compute(ctx context.Context, now time.Time, weekOffset int, weekID string) (types.WeeklyRecord, error) {
	tasks, err := s.collector.Collect(ctx)
	if err != nil {
		return types.WeeklyRecord{}, err
	}

	weekStart, weekEnd := s.resolver.WeekRange(now, weekOffset)
	completed, todo := classify.Weekly(s.resolver, weekStart, weekEnd, tasks)

	// FirstRecordedAt is stamped fresh on every recomputation, matching the
	// table's observed lifecycle.
	return types.WeeklyRecord{
		WeekID:          weekID,
		Period:          s.resolver.Period(now, weekOffset),
		CompletedCount:  len(completed),
		TodoCount:       len(todo),
		CompletedTasks:  report.FormatCompletedList(completed),
		TodoTasks:       report.FormatTodoList(todo),
		FirstRecordedAt: now,
	}, nil
}

// find looks up an existing row by week id, scanning newest-first.
func (s *Store) find(ctx context.Context, weekID string) (types.WeeklyRecord, bool, error) {
	rows, err := s.dataRows(ctx)
	if err != nil {
		return types.WeeklyRecord{}, false, err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		if s.normalizeWeekID(rows[i][0]) == weekID {
			return s.recordFromRow(rows[i]), true, nil
		}
	}
	return types.WeeklyRecord{}, false, nil
}

// upsert overwrites or inserts the record's row, then rewrites the whole
// data region sorted ascending by week id. Writes are rare (at most one per
// current-week request), so the full rewrite is acceptable.
func (s *Store) upsert(ctx context.Context, rec types.WeeklyRecord) error {
	rows, err := s.dataRows(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string][]string, len(rows)+1)
	for _, row := range rows {
		byID[s.normalizeWeekID(row[0])] = row
	}
	byID[rec.WeekID] = s.rowFromRecord(rec)

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sorted := make([][]string, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, byID[id])
	}

	if err := s.sheet.ClearRange(ctx, SheetName, 2, len(rows)); err != nil {
		return fmt.Errorf("failed to clear weekly rows: %w", err)
	}
	if err := s.sheet.WriteRange(ctx, SheetName, 2, sorted); err != nil {
		return fmt.Errorf("failed to write weekly rows: %w", err)
	}
	return nil
}

// dataRows reads every row below the header.
func (s *Store) dataRows(ctx context.Context) ([][]string, error) {
	last, err := s.sheet.LastRowIndex(ctx, SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly sheet: %w", err)
	}
	if last < 2 {
		return nil, nil
	}
	rows, err := s.sheet.ReadRange(ctx, SheetName, 2, last-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly rows: %w", err)
	}
	return rows, nil
}

// normalizeWeekID maps a stored key to canonical yyyy-MM-dd form, tolerating
// rows written as full timestamps.
func (s *Store) normalizeWeekID(raw string) string {
	if _, err := time.Parse(clock.DateLayout, raw); err == nil {
		return raw
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return s.resolver.DateOf(t)
	}
	return raw
}

func (s *Store) rowFromRecord(rec types.WeeklyRecord) []string {
	return []string{
		rec.WeekID,
		rec.Period,
		strconv.Itoa(rec.CompletedCount),
		strconv.Itoa(rec.TodoCount),
		rec.CompletedTasks,
		rec.TodoTasks,
		rec.FirstRecordedAt.In(s.resolver.Location()).Format(time.RFC3339),
	}
}

func (s *Store) recordFromRow(row []string) types.WeeklyRecord {
	rec := types.WeeklyRecord{WeekID: s.normalizeWeekID(row[0])}
	if len(row) > 1 {
		rec.Period = row[1]
	}
	if len(row) > 2 {
		rec.CompletedCount, _ = strconv.Atoi(row[2])
	}
	if len(row) > 3 {
		rec.TodoCount, _ = strconv.Atoi(row[3])
	}
	if len(row) > 4 {
		rec.CompletedTasks = row[4]
	}
	if len(row) > 5 {
		rec.TodoTasks = row[5]
	}
	if len(row) > 6 {
		if t, err := time.Parse(time.RFC3339, row[6]); err == nil {
			rec.FirstRecordedAt = t
		}
	}
	return rec
}
