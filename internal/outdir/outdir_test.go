package outdir

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != DefaultPath {
		t.Errorf("Resolve(\"\") = %q", got)
	}

	dir := t.TempDir()
	got, err = Resolve(dir)
	if err != nil || got != dir {
		t.Errorf("Resolve(%q) = %q, %v", dir, got, err)
	}
}

func TestCreate(t *testing.T) {
	root := t.TempDir()

	testCases := []struct {
		name    string
		path    string
		mode    os.FileMode
		wantErr bool
	}{
		{name: "default mode", path: filepath.Join(root, "a", "b")},
		{name: "explicit mode", path: filepath.Join(root, "c"), mode: 0o700},
		{name: "existing", path: root},
		{name: "not traversable", path: filepath.Join(root, "d"), mode: 0o600, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Create(tc.path, tc.mode)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if info, err := os.Stat(tc.path); err != nil || !info.IsDir() {
				t.Errorf("%s not created", tc.path)
			}
		})
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Create(file, 0); err == nil {
		t.Error("Create over a regular file succeeded")
	}
}

func TestStageAndCommit(t *testing.T) {
	dir := t.TempDir()

	f, err := TempFile(dir, "report.txt")
	if err != nil {
		t.Fatalf("TempFile: %v", err)
	}
	if _, err := f.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if Exists(dir, "report.txt") {
		t.Fatal("destination exists before commit")
	}

	dest := filepath.Join(dir, "report.txt")
	if err := Commit(f.Name(), dest, 0o640); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !Exists(dir, "report.txt") {
		t.Fatal("destination missing after commit")
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %o, want 640", info.Mode().Perm())
	}
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Error("staging file left behind")
	}
}

func TestMarkers(t *testing.T) {
	dir := t.TempDir()

	if IsComplete(dir, "") {
		t.Fatal("fresh directory reported complete")
	}

	if err := MarkIncomplete(dir, "run-1", "interrupted"); err != nil {
		t.Fatalf("MarkIncomplete: %v", err)
	}
	if IsComplete(dir, "run-1") {
		t.Error("incomplete run reported complete")
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := MarkComplete(dir, Marker{Timestamp: ts, RunID: "run-2", Files: 10, Bytes: 1234, Seed: 42}); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, incompleteMarker)); !os.IsNotExist(err) {
		t.Error("incomplete marker not removed")
	}
	if !IsComplete(dir, "run-2") || !IsComplete(dir, "") {
		t.Error("completed run not recognised")
	}
	if IsComplete(dir, "run-3") {
		t.Error("wrong run ID matched")
	}

	m, err := ReadMarker(dir)
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if !m.Timestamp.Equal(ts) || m.Files != 10 || m.Bytes != 1234 || m.Seed != 42 {
		t.Errorf("marker = %+v", m)
	}

	if err := Clean(dir); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if IsComplete(dir, "") {
		t.Error("marker survived Clean")
	}
	if err := Clean(dir); err != nil {
		t.Errorf("second Clean: %v", err)
	}
	if !IsMarker(completeMarker) || IsMarker("data.json") {
		t.Error("IsMarker")
	}
}
