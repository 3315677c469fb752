package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/luisrosales852/object-detection/pkg/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Expected no error opening store, got %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func sampleReport(startedAt time.Time, passed bool) *report.RunReport {
	return &report.RunReport{
		ID:        uuid.NewString(),
		BaseURL:   "http://localhost:8000",
		StartedAt: startedAt,
		Results: []report.Result{
			{Name: "health", Label: "Health endpoint", Passed: passed, Detail: "status 200", Duration: 12 * time.Millisecond},
			{Name: "available_classes", Label: "Available classes endpoint", Passed: true, Duration: 8 * time.Millisecond},
			{Name: "detect", Label: "Detect endpoint", Skipped: true, Detail: "Manual test required"},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rep := sampleReport(time.Now().UTC(), true)
	if err := store.RecordRun(ctx, rep); err != nil {
		t.Fatalf("Expected no error recording run, got %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("Expected no error listing runs, got %v", err)
	}

	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != rep.ID {
		t.Errorf("Expected run ID %s, got %s", rep.ID, runs[0].ID)
	}
	if !runs[0].Passed {
		t.Error("Expected run to be recorded as passed")
	}
	if runs[0].Checks != 3 {
		t.Errorf("Expected 3 recorded checks, got %d", runs[0].Checks)
	}
}

func TestRecentRunsOrderedNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	older := sampleReport(time.Now().UTC().Add(-time.Hour), false)
	newer := sampleReport(time.Now().UTC(), true)

	if err := store.RecordRun(ctx, older); err != nil {
		t.Fatalf("Expected no error recording older run, got %v", err)
	}
	if err := store.RecordRun(ctx, newer); err != nil {
		t.Fatalf("Expected no error recording newer run, got %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("Expected no error listing runs, got %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("Expected newest run first, got %s", runs[0].ID)
	}
	if runs[1].Passed {
		t.Error("Expected older run to be recorded as failed")
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rep := sampleReport(time.Now().UTC().Add(time.Duration(i)*time.Minute), true)
		if err := store.RecordRun(ctx, rep); err != nil {
			t.Fatalf("Expected no error recording run %d, got %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("Expected no error listing runs, got %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected limit of 3 runs, got %d", len(runs))
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rep := sampleReport(time.Now().UTC(), true)
	if err := store.RecordRun(ctx, rep); err != nil {
		t.Fatalf("Expected no error recording run, got %v", err)
	}
	if err := store.RecordRun(ctx, rep); err == nil {
		t.Error("Expected error recording duplicate run ID, got nil")
	}
}
