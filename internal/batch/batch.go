// Package batch generates many fixture files into one directory with a worker pool
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/internal/outdir"
	"github.com/provide-io/fixturegen/pkg/fixture"
	"github.com/provide-io/fixturegen/pkg/fixture/checksum"
	"github.com/schollz/progressbar/v3"
)

// Options configures one batch
type Options struct {
	OutputDir   string
	Count       int
	BudgetBytes uint64
	Workers     int
	// Formats restricts the random choice; empty means every registered format.
	Formats []string
	// Seed fixes the whole plan. Zero draws a fresh seed.
	Seed     uint64
	FileMode os.FileMode
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// FileResult is the outcome of one planned file
type FileResult struct {
	Index    int
	Name     string
	Path     string
	Format   string
	Family   fixture.Family
	Size     int64
	Checksum string
	Seed     uint64
	Err      error
}

// Runner executes batches against an engine
type Runner struct {
	engine *fixture.Engine
	logger hclog.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(engine *fixture.Engine, logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{engine: engine, logger: logger}
}

// Run plans and generates opts.Count files. Individual failures are counted in the
// summary and do not stop the batch; a cancelled ctx stops dispatch, and the summary
// of what finished is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Count < 1 {
		return nil, fmt.Errorf("batch needs at least one file, got %d", opts.Count)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	formats, err := resolveFormats(r.engine.Registry(), opts.Formats)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	jobs := plan(rng, formats, opts.Count, opts.OutputDir)

	summary := &Summary{
		RunID:     uuid.New().String(),
		Started:   time.Now(),
		OutputDir: opts.OutputDir,
		Seed:      seed,
		Requested: opts.Count,
	}

	r.logger.Info("🚀 Starting batch",
		"run_id", summary.RunID,
		"files", opts.Count,
		"workers", workers,
		"formats", len(formats),
		"seed", seed)

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Count,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	}

	results := make([]FileResult, len(jobs))
	done := make([]bool, len(jobs))
	queue := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results[j.index] = r.generate(ctx, opts, j)
				done[j.index] = true
				if bar != nil {
					bar.Add(1)
				}
			}
		}()
	}

dispatch:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- j:
		}
	}
	close(queue)
	wg.Wait()

	if bar != nil {
		bar.Finish()
	}

	for i, res := range results {
		if !done[i] {
			summary.Skipped++
			continue
		}
		summary.add(res)
	}
	summary.Elapsed = time.Since(summary.Started)

	r.logger.Info("✅ Batch complete",
		"run_id", summary.RunID,
		"written", len(summary.Files),
		"failed", len(summary.Failed),
		"skipped", summary.Skipped,
		"elapsed", FormatElapsed(summary.Elapsed))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// generate writes one file to a staging file and renames it into place
func (r *Runner) generate(ctx context.Context, opts Options, j job) FileResult {
	dest := filepath.Join(opts.OutputDir, j.name)
	res := FileResult{Index: j.index, Name: j.name, Path: dest, Format: j.format.Name, Family: j.format.Family, Seed: j.seed}

	tmp, err := outdir.TempFile(opts.OutputDir, j.name)
	if err != nil {
		res.Err = err
		r.logger.Error("❌ Failed to stage file", "file", j.name, "error", err)
		return res
	}

	h := checksum.New(checksum.Default)
	out, genErr := r.engine.Generate(ctx, fixture.Request{
		Format:      j.format.Name,
		Destination: io.MultiWriter(tmp, h),
		BudgetBytes: opts.BudgetBytes,
		Seed:        j.seed,
	})
	closeErr := tmp.Close()

	err = errors.Join(genErr, closeErr)
	if err == nil {
		err = outdir.Commit(tmp.Name(), dest, opts.FileMode)
	}
	if err != nil {
		os.Remove(tmp.Name())
		res.Err = err
		r.logger.Warn("⚠️ File generation failed", "file", j.name, "format", j.format.Name, "error", err)
		return res
	}

	res.Size = int64(out.BytesWritten)
	res.Checksum = checksum.Format(checksum.Default, h)
	r.logger.Debug("📄 Generated file",
		"index", j.index+1,
		"file", j.name,
		"format", out.Format,
		"bytes", out.BytesWritten,
		"units", out.Units)
	return res
}
