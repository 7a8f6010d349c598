// Package tree encodes synthesized value trees as json, jsonc, yaml, xml and cbor documents.
//
// Every dialect has a root mapping. One unit is one root entry: the entry is encoded on its
// own to measure it, admitted through the Budget, and stored in the root. The document is
// then encoded from the root in a single pass. Tree documents are never truncated, so a
// finished document stays within the target plus one entry plus the dialect's wrapper.
package tree

import (
	"fmt"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"github.com/provide-io/fixturegen/pkg/fixture/value"
)

// codec encodes one run's root entries and the finished document.
type codec interface {
	// Entry returns the encoded size of one root entry.
	Entry(key string, v value.Value) (uint64, error)
	// Document encodes the finished root.
	Document(root *value.Mapping) ([]byte, error)
}

// committer is implemented by codecs that keep per-entry state once an entry is admitted.
type committer interface {
	Commit(key string)
}

// Dialect is one tree format.
type Dialect struct {
	name  string
	ext   string
	synth func(r *rand.Rand, text lexicon.Source) *value.Synthesizer
	codec func(r *rand.Rand, lex *lexicon.Random) codec
}

func (d *Dialect) Name() string      { return d.name }
func (d *Dialect) Extension() string { return d.ext }

// Generate synthesizes root entries until the Budget is spent and encodes the document.
func (d *Dialect) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	lex := lexicon.New(r)
	synth := d.synth(r, lex)
	c := d.codec(r, lex)
	root := value.NewMapping()

	for b.Units() == 0 || b.ShouldContinue() {
		key := lex.Word()
		v := synth.Synthesize(1)
		size, err := c.Entry(key, v)
		if err != nil {
			return nil, fmt.Errorf("encoding entry %q: %w", key, err)
		}
		if !b.Admit(size) {
			break
		}
		root.Set(key, v)
		if cm, ok := c.(committer); ok {
			cm.Commit(key)
		}
	}

	out, err := c.Document(root)
	if err != nil {
		return nil, fmt.Errorf("encoding %s document: %w", d.name, err)
	}
	return out, nil
}

// Dialects returns every tree dialect.
func Dialects() []*Dialect {
	return []*Dialect{JSON(), JSONC(), YAML(), XML(), CBOR()}
}

// JSON is an indented object with key order preserved.
func JSON() *Dialect {
	return &Dialect{
		name:  "json",
		ext:   "json",
		synth: value.NewJSONSynthesizer,
		codec: func(*rand.Rand, *lexicon.Random) codec { return &jsonCodec{} },
	}
}

// JSONC is JSON with line comments and an occasional trailing comma.
func JSONC() *Dialect {
	return &Dialect{
		name:  "jsonc",
		ext:   "jsonc",
		synth: value.NewJSONSynthesizer,
		codec: func(r *rand.Rand, lex *lexicon.Random) codec {
			return &jsoncCodec{r: r, lex: lex, notes: make(map[string]string)}
		},
	}
}

// YAML is a block-style document without nulls.
func YAML() *Dialect {
	return &Dialect{
		name:  "yaml",
		ext:   "yaml",
		synth: value.NewYAMLSynthesizer,
		codec: func(*rand.Rand, *lexicon.Random) codec { return yamlCodec{} },
	}
}

// XML is a root element whose children mirror the value tree.
func XML() *Dialect {
	return &Dialect{
		name:  "xml",
		ext:   "xml",
		synth: value.NewJSONSynthesizer,
		codec: func(*rand.Rand, *lexicon.Random) codec { return xmlCodec{} },
	}
}

// CBOR is a core deterministic CBOR map.
func CBOR() *Dialect {
	return &Dialect{
		name:  "cbor",
		ext:   "cbor",
		synth: value.NewJSONSynthesizer,
		codec: func(*rand.Rand, *lexicon.Random) codec { return cborCodec{} },
	}
}
