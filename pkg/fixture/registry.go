// Package fixture dispatches generation requests to format generators.
//
// A request names a format, a destination and a byte budget. The engine runs the
// matching generator entirely in memory with a per-run random source and Budget, and
// writes the finished artifact to the destination in a single call.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/provide-io/fixturegen/pkg/fixture/archive"
	"github.com/provide-io/fixturegen/pkg/fixture/audio"
	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/flat"
	"github.com/provide-io/fixturegen/pkg/fixture/raster"
	"github.com/provide-io/fixturegen/pkg/fixture/tree"
)

// Generator produces one artifact of a format within a Budget. Generators hold no run
// state, so one instance serves concurrent requests.
type Generator interface {
	Name() string
	Extension() string
	Generate(r *rand.Rand, b *budget.Budget) ([]byte, error)
}

// Family groups formats by the synthesizer behind them.
type Family string

const (
	FamilyText    Family = "text"
	FamilyTree    Family = "tree"
	FamilyImage   Family = "image"
	FamilyAudio   Family = "audio"
	FamilyArchive Family = "archive"
)

// Format describes one registered format.
type Format struct {
	Name      string
	Extension string
	Family    Family
	Generator Generator
}

// Registry maps format identifiers and aliases to generators.
type Registry struct {
	formats map[string]Format
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
		aliases: make(map[string]string),
	}
}

// Register adds g under its own name.
func (r *Registry) Register(family Family, g Generator) {
	name := strings.ToLower(g.Name())
	r.formats[name] = Format{Name: name, Extension: g.Extension(), Family: family, Generator: g}
}

// Alias makes alias resolve to the registered format target.
func (r *Registry) Alias(alias, target string) error {
	target = strings.ToLower(target)
	if _, ok := r.formats[target]; !ok {
		return fmt.Errorf("alias %s: unknown format %s", alias, target)
	}
	r.aliases[strings.ToLower(alias)] = target
	return nil
}

// Lookup resolves a format identifier or alias.
func (r *Registry) Lookup(id string) (Format, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	f, ok := r.formats[id]
	return f, ok
}

// Formats lists canonical format identifiers, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// DefaultRegistry registers every built-in format and the generic aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range flat.Dialects() {
		r.Register(FamilyText, d)
	}
	for _, d := range tree.Dialects() {
		r.Register(FamilyTree, d)
	}
	for _, d := range raster.Dialects() {
		r.Register(FamilyImage, d)
	}
	r.Register(FamilyAudio, audio.NewWAV())
	for _, c := range archive.Containers() {
		r.Register(FamilyArchive, c)
	}

	for alias, target := range map[string]string{
		"flat-text": "txt",
		"tree-text": "json",
		"raster":    "png",
		"audio":     "wav",
		"archive":   "zip",
		"jpeg":      "jpg",
		"tif":       "tiff",
		"yml":       "yaml",
		"tgz":       "tar.gz",
	} {
		if err := r.Alias(alias, target); err != nil {
			panic("fixture: " + err.Error())
		}
	}
	return r
}
