package manifest

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRead(t *testing.T) {
	store := openStore(t)

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	run := Run{ID: "run-a", Started: start, Finished: start.Add(time.Second), Requested: 3, Written: 2, Failed: 1, Bytes: 300}
	files := []File{
		{Name: "b.json", Format: "json", Size: 200, Checksum: "blake3:bb"},
		{Name: "a.txt", Format: "txt", Size: 100, Checksum: "blake3:aa"},
	}
	if err := store.Record(run, files); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Run("run-a")
	if err != nil || got == nil {
		t.Fatalf("Run: %v, %v", got, err)
	}
	if got.Written != 2 || got.Failed != 1 || !got.Started.Equal(start) {
		t.Errorf("run = %+v", got)
	}

	recorded, err := store.Files("run-a")
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(recorded) != 2 || recorded[0].Name != "a.txt" || recorded[1].Name != "b.json" {
		t.Fatalf("files = %+v", recorded)
	}
	for _, f := range recorded {
		if f.RunID != "run-a" {
			t.Errorf("%s has run ID %q", f.Name, f.RunID)
		}
	}

	missing, err := store.Run("nope")
	if err != nil || missing != nil {
		t.Errorf("Run(nope) = %v, %v", missing, err)
	}
}

func TestRunsAreOrderedAndIsolated(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// IDs sort opposite to start times
	ids := []string{"run-c", "run-b", "run-a"}
	for i, id := range ids {
		run := Run{ID: id, Started: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Record(run, []File{{Name: "x.txt", Checksum: "blake3:" + id}}); err != nil {
			t.Fatal(err)
		}
	}
	// a run whose ID prefixes another must not see its files
	if err := store.Record(Run{ID: "run", Started: base.Add(-time.Hour)}, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := store.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	want := []string{"run", "run-c", "run-b", "run-a"}
	if len(runs) != len(want) {
		t.Fatalf("runs = %d, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, id)
		}
	}

	files, err := store.Files("run")
	if err != nil || len(files) != 0 {
		t.Errorf("Files(run) = %v, %v", files, err)
	}

	found, err := store.FindByChecksum("blake3:run-b")
	if err != nil || len(found) != 1 || found[0].RunID != "run-b" {
		t.Errorf("FindByChecksum = %v, %v", found, err)
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t)
	if err := store.Record(Run{ID: "r1"}, []File{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(Run{ID: "r2"}, []File{{Name: "a"}}); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if run, _ := store.Run("r1"); run != nil {
		t.Error("run survived Delete")
	}
	if files, _ := store.Files("r1"); len(files) != 0 {
		t.Errorf("files survived Delete: %v", files)
	}
	if files, _ := store.Files("r2"); len(files) != 1 {
		t.Errorf("sibling run lost files: %v", files)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.Record(Run{}, nil); err == nil {
		t.Error("run without ID accepted")
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(Run{ID: "persisted"}, nil); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if run, err := store.Run("persisted"); err != nil || run == nil {
		t.Errorf("run lost across reopen: %v", err)
	}
}
