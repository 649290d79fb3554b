package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openFixture(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	store := openFixture(t)

	records, err := store.Recent(5)
	if err != nil {
		t.Fatalf("Recent failed on a fresh store: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected an empty store, got %d records", len(records))
	}
}

func TestOpenRejectsBadPaths(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("Expected an error for an empty path")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Expected an error for a directory path")
	}
}

func TestSaveAndRecent(t *testing.T) {
	store := openFixture(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []Record{
		{ScanID: "scan-1", RootModule: "app", Timestamp: base, Duration: 120 * time.Millisecond,
			ModuleCount: 4, EdgeCount: 3, CachedModules: 4, Success: true},
		{ScanID: "scan-2", JobID: "job-1", RootModule: "lib", Timestamp: base.Add(time.Minute),
			PlaceholderCount: 1, Success: false, ErrorCode: "MODULE_NOT_FOUND"},
	}
	for _, rec := range records {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}

	// Most recent first.
	if got[0].ScanID != "scan-2" || got[1].ScanID != "scan-1" {
		t.Errorf("Expected newest-first ordering, got %s, %s", got[0].ScanID, got[1].ScanID)
	}
	if got[0].JobID != "job-1" || got[0].ErrorCode != "MODULE_NOT_FOUND" || got[0].Success {
		t.Errorf("Unexpected failure record: %+v", got[0])
	}
	if got[1].Duration != 120*time.Millisecond || got[1].ModuleCount != 4 || got[1].EdgeCount != 3 {
		t.Errorf("Unexpected success record: %+v", got[1])
	}
	if !got[1].Timestamp.Equal(base) {
		t.Errorf("Expected timestamp %v, got %v", base, got[1].Timestamp)
	}
}

func TestSaveRequiresScanID(t *testing.T) {
	store := openFixture(t)
	if err := store.Save(Record{RootModule: "app"}); err == nil {
		t.Error("Expected an error for a record without a scan id")
	}
}

func TestRecentLimit(t *testing.T) {
	store := openFixture(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := Record{
			ScanID:     string(rune('a' + i)),
			RootModule: "app",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			Success:    true,
		}
		if err := store.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected a capped result, got %d", len(got))
	}
	if got[0].ScanID != "e" {
		t.Errorf("Expected the newest record first, got %q", got[0].ScanID)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Record{ScanID: "persisted", RootModule: "app", Success: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ScanID != "persisted" {
		t.Errorf("Expected the persisted record, got %v", got)
	}
}
