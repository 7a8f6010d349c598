package batch

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture"
	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/checksum"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "batch_test",
		Level: hclog.Trace,
	})
}

type stubGenerator struct {
	name string
	fail bool
}

func (g *stubGenerator) Name() string      { return g.name }
func (g *stubGenerator) Extension() string { return g.name }
func (g *stubGenerator) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	if g.fail {
		return nil, errors.New("stub failure")
	}
	b.Admit(4)
	return []byte("stub"), nil
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunWritesVerifiedFiles(t *testing.T) {
	logger := testLogger()
	dir := t.TempDir()
	runner := NewRunner(fixture.NewEngine(logger), logger)

	logger.Info("🧪 Testing batch run", "dir", dir)
	summary, err := runner.Run(context.Background(), Options{
		OutputDir:   dir,
		Count:       12,
		BudgetBytes: 4096,
		Workers:     4,
		Formats:     []string{"txt", "json", "csv", "png", "wav", "tar.gz"},
		Seed:        7,
		FileMode:    0o640,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Files) != 12 || len(summary.Failed) != 0 {
		t.Fatalf("written %d, failed %d", len(summary.Files), len(summary.Failed))
	}

	var total int64
	for _, f := range summary.Files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		if int64(len(data)) != f.Size {
			t.Errorf("%s: size %d, recorded %d", f.Name, len(data), f.Size)
		}
		ok, err := checksum.Verify(data, f.Checksum)
		if err != nil || !ok {
			t.Errorf("%s: checksum mismatch (%v)", f.Name, err)
		}
		info, _ := os.Stat(f.Path)
		if info.Mode().Perm() != 0o640 {
			t.Errorf("%s: mode %o", f.Name, info.Mode().Perm())
		}
		total += f.Size
	}
	if total != summary.TotalBytes {
		t.Errorf("TotalBytes = %d, want %d", summary.TotalBytes, total)
	}

	counted := 0
	for _, n := range summary.TypeCounts {
		counted += n
	}
	if counted != 12 {
		t.Errorf("type distribution counts %d files", counted)
	}

	for _, name := range listDir(t, dir) {
		if strings.HasSuffix(name, ".tmp") {
			t.Errorf("staging file left behind: %s", name)
		}
	}
	if len(listDir(t, dir)) != 12 {
		t.Errorf("directory holds %d entries, want 12", len(listDir(t, dir)))
	}
}

func TestRunIsReproducible(t *testing.T) {
	runner := NewRunner(fixture.NewEngine(nil), nil)
	opts := Options{Count: 8, BudgetBytes: 2048, Workers: 3, Seed: 99}

	var sums [2][]string
	for i := range sums {
		opts.OutputDir = t.TempDir()
		summary, err := runner.Run(context.Background(), opts)
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		for _, f := range summary.Files {
			sums[i] = append(sums[i], f.Name+"="+f.Checksum)
		}
	}
	if strings.Join(sums[0], ",") != strings.Join(sums[1], ",") {
		t.Errorf("runs differ:\n%v\n%v", sums[0], sums[1])
	}
}

func TestFailuresAreIsolated(t *testing.T) {
	reg := fixture.NewRegistry()
	reg.Register(fixture.FamilyText, &stubGenerator{name: "ok"})
	reg.Register(fixture.FamilyText, &stubGenerator{name: "boom", fail: true})

	dir := t.TempDir()
	runner := NewRunner(fixture.NewEngineWithRegistry(reg, nil), testLogger())
	summary, err := runner.Run(context.Background(), Options{
		OutputDir: dir,
		Count:     30,
		Workers:   4,
		Seed:      5,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Files)+len(summary.Failed) != 30 {
		t.Fatalf("written %d + failed %d != 30", len(summary.Files), len(summary.Failed))
	}
	if len(summary.Failed) == 0 || len(summary.Files) == 0 {
		t.Fatalf("expected both outcomes, got %d ok / %d failed", len(summary.Files), len(summary.Failed))
	}
	for _, f := range summary.Failed {
		if !errors.Is(f.Err, fxerrors.ErrEncodingFailure) {
			t.Errorf("%s: error %v, want ErrEncodingFailure", f.Name, f.Err)
		}
		if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
			t.Errorf("failed file %s exists", f.Name)
		}
	}
	if got := len(listDir(t, dir)); got != len(summary.Files) {
		t.Errorf("directory holds %d entries, want %d", got, len(summary.Files))
	}
}

func TestCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	runner := NewRunner(fixture.NewEngine(nil), nil)
	summary, err := runner.Run(ctx, Options{OutputDir: dir, Count: 20, Workers: 2, BudgetBytes: 1024})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if summary == nil {
		t.Fatal("no summary for cancelled run")
	}
	if len(summary.Files) != 0 {
		t.Errorf("%d files written after cancellation", len(summary.Files))
	}
	if len(summary.Failed)+summary.Skipped != 20 {
		t.Errorf("failed %d + skipped %d != 20", len(summary.Failed), summary.Skipped)
	}
	if n := len(listDir(t, dir)); n != 0 {
		t.Errorf("directory holds %d entries", n)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	runner := NewRunner(fixture.NewEngine(nil), nil)

	testCases := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "no files", opts: Options{OutputDir: t.TempDir(), Count: 0}},
		{name: "unknown format", opts: Options{OutputDir: t.TempDir(), Count: 1, Formats: []string{"docx"}}, wantErr: fxerrors.ErrUnsupportedFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), tc.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPlanAvoidsCollisions(t *testing.T) {
	reg := fixture.DefaultRegistry()
	formats, err := resolveFormats(reg, []string{"txt"})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	first := plan(rand.New(rand.NewPCG(1, 1)), formats, 300, dir)
	seen := map[string]bool{}
	for _, j := range first {
		if seen[j.name] {
			t.Fatalf("duplicate planned name %s", j.name)
		}
		seen[j.name] = true
		if err := os.WriteFile(filepath.Join(dir, j.name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// the same seed against a populated directory must re-roll every name
	second := plan(rand.New(rand.NewPCG(1, 1)), formats, 300, dir)
	for _, j := range second {
		if seen[j.name] {
			t.Errorf("planned name %s already exists", j.name)
		}
		if !strings.HasSuffix(j.name, ".txt") {
			t.Errorf("name %s lacks extension", j.name)
		}
	}
}

func TestResolveFormatsDeduplicatesAliases(t *testing.T) {
	formats, err := resolveFormats(fixture.DefaultRegistry(), []string{"yaml", "yml", "tgz", "tar.gz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(formats) != 2 {
		t.Errorf("resolved %d formats, want 2", len(formats))
	}
}

func TestFormatElapsed(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{d: 250 * time.Millisecond, want: "250 ms"},
		{d: 0, want: "0 ms"},
		{d: 1500 * time.Millisecond, want: "1.50 seconds"},
		{d: 59 * time.Second, want: "59.00 seconds"},
		{d: 2*time.Minute + 3250*time.Millisecond, want: "2m 3.25s"},
	}

	for _, tc := range testCases {
		if got := FormatElapsed(tc.d); got != tc.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestSummaryReport(t *testing.T) {
	s := &Summary{RunID: "run-x", Requested: 3, Seed: 4, Elapsed: 2 * time.Second}
	s.add(FileResult{Name: "a.txt", Format: "txt", Size: 1024})
	s.add(FileResult{Name: "b.txt", Format: "txt", Size: 1024})
	s.add(FileResult{Name: "c.png", Format: "png", Err: errors.New("bad")})

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	for _, want := range []string{"Total files generated: 2", "Failed: 1", "  txt: 2", "Total size: 2.0 KiB", "Time elapsed: 2.00 seconds"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	run, files := s.Manifest()
	if run.Written != 2 || run.Failed != 1 || len(files) != 2 || files[0].RunID != "run-x" {
		t.Errorf("manifest = %+v %+v", run, files)
	}
	if m := s.Marker(); m.Files != 2 || m.Bytes != 2048 {
		t.Errorf("marker = %+v", m)
	}
}
