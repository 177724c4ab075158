package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"vx/internal/journal"
	"vx/internal/testsupport"
)

func sampleRun(id string, started time.Time) journal.Run {
	return journal.Run{
		ID:         id,
		Mode:       "tracks",
		BaseDir:    "Subtitles",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Videos:     2,
		Succeeded:  1,
		Failed:     1,
	}
}

func TestRecordAndReadBack(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := sampleRun("run-1", started)
	entries := []journal.Entry{
		{Position: 0, Video: "a.mkv", State: "done", Outputs: 2, Duration: 800 * time.Millisecond},
		{Position: 1, Video: "b.mkv", State: "failed", ErrorKind: "NothingFound", ErrorMessage: "nothing found: b.mkv"},
	}
	if err := store.Record(ctx, run, entries); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || got.Mode != "tracks" || got.BaseDir != "Subtitles" || got.Succeeded != 1 || got.Failed != 1 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if !got.StartedAt.Equal(started) || got.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timestamps: %+v", got)
	}

	stored, err := store.Entries(ctx, "run-1")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stored))
	}
	if stored[0].Video != "a.mkv" || stored[0].Outputs != 2 || stored[0].Duration != 800*time.Millisecond || stored[0].ErrorKind != "" {
		t.Fatalf("unexpected first entry: %+v", stored[0])
	}
	if stored[1].ErrorKind != "NothingFound" || stored[1].RunID != "run-1" {
		t.Fatalf("unexpected second entry: %+v", stored[1])
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 500 * time.Millisecond, time.Second, 2 * time.Hour}
	for i, offset := range offsets {
		run := sampleRun(string(rune('a'+i)), base.Add(offset))
		if err := store.Record(ctx, run, nil); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	runs, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(runs))
	}
	if runs[0].ID != "d" || runs[1].ID != "c" || runs[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("default limit should cover all 4 runs, got %d", len(all))
	}
}

func TestRecordRejectsDuplicateRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run := sampleRun("dup", time.Now())
	if err := store.Record(ctx, run, nil); err != nil {
		t.Fatalf("first Record failed: %v", err)
	}
	if err := store.Record(ctx, run, []journal.Entry{{Video: "x.mkv", State: "done"}}); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	entries, err := store.Entries(ctx, "dup")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed record must not leave entries, got %+v", entries)
	}
}

func TestRecordRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	if err := store.Record(context.Background(), journal.Run{}, nil); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := journal.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	db.Close()

	if _, err := journal.Open(context.Background(), path); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()
	first, err := journal.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Record(ctx, sampleRun("keep", time.Now()), nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	first.Close()

	second, err := journal.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	runs, err := second.Recent(ctx, 5)
	if err != nil || len(runs) != 1 || runs[0].ID != "keep" {
		t.Fatalf("expected persisted run, got %+v (%v)", runs, err)
	}
	if second.Path() != path {
		t.Fatalf("unexpected path %q", second.Path())
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := journal.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
