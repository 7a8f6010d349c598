package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/provide-io/fixturegen/internal/manifest"
	"github.com/provide-io/fixturegen/internal/outdir"
)

// Summary describes a finished batch
type Summary struct {
	RunID     string
	Started   time.Time
	Elapsed   time.Duration
	OutputDir string
	Seed      uint64
	Requested int
	Files     []FileResult
	Failed    []FileResult
	// Skipped counts planned files never dispatched because the batch was cancelled.
	Skipped    int
	TotalBytes int64
	TypeCounts map[string]int
}

func (s *Summary) add(res FileResult) {
	if res.Err != nil {
		s.Failed = append(s.Failed, res)
		return
	}
	if s.TypeCounts == nil {
		s.TypeCounts = make(map[string]int)
	}
	s.Files = append(s.Files, res)
	s.TypeCounts[res.Format]++
	s.TotalBytes += res.Size
}

// Marker is the completion marker for the output directory
func (s *Summary) Marker() outdir.Marker {
	return outdir.Marker{
		Timestamp: s.Started.Add(s.Elapsed).UTC(),
		RunID:     s.RunID,
		Files:     len(s.Files),
		Failed:    len(s.Failed),
		Bytes:     s.TotalBytes,
		Seed:      s.Seed,
	}
}

// Manifest converts the summary into manifest records
func (s *Summary) Manifest() (manifest.Run, []manifest.File) {
	run := manifest.Run{
		ID:        s.RunID,
		Started:   s.Started.UTC(),
		Finished:  s.Started.Add(s.Elapsed).UTC(),
		OutputDir: s.OutputDir,
		Seed:      s.Seed,
		Requested: s.Requested,
		Written:   len(s.Files),
		Failed:    len(s.Failed),
		Bytes:     s.TotalBytes,
	}
	files := make([]manifest.File, len(s.Files))
	for i, f := range s.Files {
		files[i] = manifest.File{
			RunID:    s.RunID,
			Name:     f.Name,
			Format:   f.Format,
			Size:     f.Size,
			Checksum: f.Checksum,
			Seed:     f.Seed,
		}
	}
	return run, files
}

// FormatElapsed renders d as milliseconds under a second, seconds under a minute,
// and minutes plus seconds beyond.
func FormatElapsed(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 1:
		return fmt.Sprintf("%.0f ms", secs*1000)
	case secs < 60:
		return fmt.Sprintf("%.2f seconds", secs)
	default:
		minutes := int(secs / 60)
		return fmt.Sprintf("%dm %.2fs", minutes, secs-float64(minutes*60))
	}
}

// Print writes the human-readable report
func (s *Summary) Print(w io.Writer) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Generation complete!")
	fmt.Fprintf(w, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(w, "Output directory: %s\n", s.OutputDir)
	fmt.Fprintf(w, "Total files generated: %d\n", len(s.Files))
	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Failed: %d\n", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(w, "  %s: %v\n", filepath.Base(f.Path), f.Err)
		}
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Skipped: %d\n", s.Skipped)
	}

	fmt.Fprintln(w, "File type distribution:")
	types := make([]string, 0, len(s.TypeCounts))
	for t := range s.TypeCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s: %d\n", t, s.TypeCounts[t])
	}

	fmt.Fprintf(w, "Total size: %s\n", humanize.IBytes(uint64(s.TotalBytes)))
	fmt.Fprintf(w, "Seed: %d\n", s.Seed)
	fmt.Fprintf(w, "Time elapsed: %s\n", FormatElapsed(s.Elapsed))
}

// PrintFiles writes one line per generated file, in plan order
func (s *Summary) PrintFiles(w io.Writer) {
	for _, f := range s.Files {
		fmt.Fprintf(w, "[%d/%d] Generated: %s (%s, %s) %s\n",
			f.Index+1, s.Requested, f.Name, f.Format, humanize.IBytes(uint64(f.Size)), f.Checksum)
	}
}
