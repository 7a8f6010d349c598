package batch

import (
	"fmt"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/internal/outdir"
	"github.com/provide-io/fixturegen/pkg/fixture"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
)

// maxRerolls bounds name collisions before falling back to an index suffix
const maxRerolls = 64

// job is one planned file
type job struct {
	index  int
	name   string
	format fixture.Format
	seed   uint64
}

// plan picks a format, a unique name and a seed for each of count files. Names are
// unique within the plan and do not exist in dir yet.
func plan(r *rand.Rand, formats []fixture.Format, count int, dir string) []job {
	lex := lexicon.New(r)
	taken := make(map[string]struct{}, count)
	jobs := make([]job, count)

	for i := range jobs {
		f := formats[r.IntN(len(formats))]

		var name string
		for attempt := 0; ; attempt++ {
			base := lex.Filename()
			if attempt >= maxRerolls {
				base = fmt.Sprintf("%s-%d", base, i)
			}
			name = base + "." + f.Extension
			if _, dup := taken[name]; !dup && !outdir.Exists(dir, name) {
				break
			}
		}
		taken[name] = struct{}{}

		seed := r.Uint64()
		if seed == 0 {
			seed = 1
		}
		jobs[i] = job{index: i, name: name, format: f, seed: seed}
	}
	return jobs
}

// resolveFormats maps identifiers to registry formats. An empty list selects every
// registered format.
func resolveFormats(reg *fixture.Registry, ids []string) ([]fixture.Format, error) {
	if len(ids) == 0 {
		ids = reg.Formats()
	}

	formats := make([]fixture.Format, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f, ok := reg.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", fxerrors.ErrUnsupportedFormat, id)
		}
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats selected")
	}
	return formats, nil
}
