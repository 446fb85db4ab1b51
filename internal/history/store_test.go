package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(jobID string, finished time.Time) Record {
	return Record{
		JobID:       jobID,
		Command:     `"ffmpeg" "-nostdin" "-y" "-i" "/footage/a.mp4"`,
		Outcome:     "succeeded",
		SourceCount: 1,
		OutputPath:  "/renders/daily.mp4",
		LogPath:     "/tmp/ffmpeg_output.txt",
		StartedAt:   finished.Add(-30 * time.Second),
		FinishedAt:  finished,
	}
}

func TestInsertAndGetByJobID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("job-1", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	id, err := store.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected nonzero row id")
	}

	got, found, err := store.GetByJobID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByJobID: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if got.Command != rec.Command || got.Outcome != rec.Outcome {
		t.Fatalf("record mismatch: %+v", got)
	}
	if !got.FinishedAt.Equal(rec.FinishedAt) {
		t.Fatalf("finished_at mismatch: %v != %v", got.FinishedAt, rec.FinishedAt)
	}

	if _, found, err = store.GetByJobID(ctx, "nope"); err != nil || found {
		t.Fatalf("expected miss without error, got found=%v err=%v", found, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, jobID := range []string{"old", "mid", "new"} {
		rec := sampleRecord(jobID, base.Add(time.Duration(i)*time.Minute))
		if _, err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert %s: %v", jobID, err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].JobID != "new" || records[1].JobID != "mid" {
		t.Fatalf("unexpected order: %s, %s", records[0].JobID, records[1].JobID)
	}
}

func TestClearAndCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, sampleRecord("job-1", time.Now())); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	count, err := store.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected count 1, got %d (%v)", count, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	count, err = store.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected empty history, got %d (%v)", count, err)
	}
}

func TestInsertRejectsEmptyJobID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Insert(context.Background(), Record{}); err == nil {
		t.Fatal("expected error for empty job ID")
	}
}

func TestReopenKeepsSchemaAndData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Insert(context.Background(), sampleRecord("job-1", time.Now())); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("expected persisted record, got %d (%v)", count, err)
	}
}
