package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/internal/sheet"
)

func newTestLog(t *testing.T) (*Log, *sheet.SQLiteStore) {
	t.Helper()
	store, err := sheet.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	resolver, err := clock.NewResolver("Asia/Seoul")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	return NewLog(store, resolver, hclog.NewNullLogger()), store
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordSameDayOverwrites(t *testing.T) {
	log, store := newTestLog(t)
	ctx := context.Background()
	kst, _ := time.LoadLocation("Asia/Seoul")

	log.Now = fixedNow(time.Date(2024, 6, 10, 9, 0, 0, 0, kst))
	overwrote, err := log.Record(ctx, "first version")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if overwrote {
		t.Error("Expected a fresh append on the first record")
	}

	log.Now = fixedNow(time.Date(2024, 6, 10, 18, 0, 0, 0, kst))
	overwrote, err = log.Record(ctx, "second version")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !overwrote {
		t.Error("Expected same-day overwrite")
	}

	last, _ := store.LastRowIndex(ctx, SheetName)
	if last != 2 {
		t.Errorf("Expected header plus one row, got last row %d", last)
	}

	rows, _ := store.ReadRange(ctx, SheetName, 2, 1)
	if len(rows) != 1 || rows[0][1] != "second version" {
		t.Errorf("Expected overwritten content, got %+v", rows)
	}
}

func TestRecordDifferentDaysAppend(t *testing.T) {
	log, store := newTestLog(t)
	ctx := context.Background()
	kst, _ := time.LoadLocation("Asia/Seoul")

	log.Now = fixedNow(time.Date(2024, 6, 10, 9, 0, 0, 0, kst))
	if _, err := log.Record(ctx, "monday"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	log.Now = fixedNow(time.Date(2024, 6, 11, 9, 0, 0, 0, kst))
	overwrote, err := log.Record(ctx, "tuesday")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if overwrote {
		t.Error("Expected append on a new day")
	}

	last, _ := store.LastRowIndex(ctx, SheetName)
	if last != 3 {
		t.Errorf("Expected header plus two rows, got last row %d", last)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()
	kst, _ := time.LoadLocation("Asia/Seoul")

	for day := 1; day <= 25; day++ {
		log.Now = fixedNow(time.Date(2024, 6, day, 9, 0, 0, 0, kst))
		if _, err := log.Record(ctx, fmt.Sprintf("day %d report\ndetails", day)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := log.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 20 {
		t.Fatalf("Expected 20 entries, got %d", len(entries))
	}
	if entries[0].Title != "day 25 report" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Title)
	}
	if entries[19].Title != "day 6 report" {
		t.Errorf("Expected oldest listed entry to be day 6, got %q", entries[19].Title)
	}
}

func TestListSplitsTitleAndContent(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()
	kst, _ := time.LoadLocation("Asia/Seoul")

	log.Now = fixedNow(time.Date(2024, 6, 10, 9, 30, 0, 0, kst))
	if _, err := log.Record(ctx, "**Daily List** 🗓️\n\n- [ ] something\n"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := log.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "**Daily List** 🗓️" {
		t.Errorf("Expected first line as title, got %q", entries[0].Title)
	}
	if entries[0].Content != "- [ ] something" {
		t.Errorf("Expected trimmed remainder as content, got %q", entries[0].Content)
	}
	if entries[0].Date != "2024-06-10 09:30:00" {
		t.Errorf("Unexpected entry date %q", entries[0].Date)
	}
}

func TestListEmpty(t *testing.T) {
	log, _ := newTestLog(t)
	entries, err := log.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
