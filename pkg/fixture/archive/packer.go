// Package archive packs small generated documents into zip and tar containers.
package archive

import (
	"fmt"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/flat"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"github.com/provide-io/fixturegen/pkg/fixture/tree"
)

// Source generates the payload of one entry.
type Source interface {
	Name() string
	Extension() string
	Generate(r *rand.Rand, b *budget.Budget) ([]byte, error)
}

// Entry is one named file inside an archive.
type Entry struct {
	Name    string
	Payload []byte
}

// Footprint returns the bytes an entry occupies inside its container.
type Footprint func(name string, size int) uint64

// Packer decides how many entries an archive holds and generates them.
type Packer struct {
	MinEntries, MaxEntries         int
	MinEntryBudget, MaxEntryBudget int
	Sources                        []Source
	// Footprint sizes an entry for the archive Budget. Nil counts the payload alone.
	Footprint Footprint
}

// NewPacker returns a Packer of 3-15 entries drawn from the small text dialects.
func NewPacker() *Packer {
	return &Packer{
		MinEntries:     3,
		MaxEntries:     15,
		MinEntryBudget: 256,
		MaxEntryBudget: 4096,
		Sources: []Source{
			flat.Text(), tree.JSON(), flat.CSV(), flat.Markdown(), tree.YAML(), flat.Log(),
		},
	}
}

// Entries generates entries in order until the count or b runs out. Each entry has its
// own Budget and is admitted into b by its Footprint. Names carry the entry's index so
// they are unique without retries. A failing entry fails the whole archive.
func (p *Packer) Entries(r *rand.Rand, b *budget.Budget) ([]Entry, error) {
	if len(p.Sources) == 0 {
		return nil, fmt.Errorf("packer has no entry sources")
	}

	lex := lexicon.New(r)
	n := lexicon.Between(r, p.MinEntries, p.MaxEntries)
	entries := make([]Entry, 0, n)

	for i := 0; i < n; i++ {
		if b.Units() > 0 && !b.ShouldContinue() {
			break
		}

		src := p.Sources[r.IntN(len(p.Sources))]
		inner := budget.New(uint64(lexicon.Between(r, p.MinEntryBudget, p.MaxEntryBudget)), 0)
		payload, err := src.Generate(r, inner)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, src.Name(), err)
		}

		name := fmt.Sprintf("%02d-%s.%s", i+1, lex.Filename(), src.Extension())
		size := uint64(len(payload))
		if p.Footprint != nil {
			size = p.Footprint(name, len(payload))
		}
		b.Admit(size)
		entries = append(entries, Entry{Name: name, Payload: payload})
	}
	return entries, nil
}
