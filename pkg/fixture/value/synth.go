package value

import (
	"math"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
)

// DefaultMaxDepth is the deepest level at which a container may still be chosen plus one.
const DefaultMaxDepth = 4

// WeightedKind pairs a kind with its relative selection weight.
type WeightedKind struct {
	Kind   Kind
	Weight int
}

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

// Synthesizer produces depth-bounded random values.
type Synthesizer struct {
	R         *rand.Rand
	Text      lexicon.Source
	MaxDepth  int
	MaxFanout int
	Kinds     []WeightedKind
	Ints      Range
	Floats    Range

	total int
}

// JSONKinds mirrors the value mix of JSON documents: every kind equally likely.
var JSONKinds = []WeightedKind{
	{KindString, 1}, {KindInt, 1}, {KindFloat, 1}, {KindBool, 1},
	{KindSequence, 1}, {KindMapping, 1}, {KindNull, 1},
}

// YAMLKinds is JSONKinds without null.
var YAMLKinds = []WeightedKind{
	{KindString, 1}, {KindInt, 1}, {KindFloat, 1}, {KindBool, 1},
	{KindSequence, 1}, {KindMapping, 1},
}

// NewJSONSynthesizer returns a Synthesizer with the JSON value mix.
func NewJSONSynthesizer(r *rand.Rand, text lexicon.Source) *Synthesizer {
	return &Synthesizer{
		R:         r,
		Text:      text,
		MaxDepth:  DefaultMaxDepth,
		MaxFanout: 5,
		Kinds:     JSONKinds,
		Ints:      Range{-10000, 10000},
		Floats:    Range{-1000, 1000},
	}
}

// NewYAMLSynthesizer returns a Synthesizer with the YAML value mix.
func NewYAMLSynthesizer(r *rand.Rand, text lexicon.Source) *Synthesizer {
	return &Synthesizer{
		R:         r,
		Text:      text,
		MaxDepth:  DefaultMaxDepth,
		MaxFanout: 4,
		Kinds:     YAMLKinds,
		Ints:      Range{-1000, 1000},
		Floats:    Range{-1000, 1000},
	}
}

func (s *Synthesizer) chooseKind() Kind {
	if s.total == 0 {
		for _, wk := range s.Kinds {
			s.total += wk.Weight
		}
	}
	if s.total <= 0 {
		return KindString
	}
	n := s.R.IntN(s.total)
	for _, wk := range s.Kinds {
		if n < wk.Weight {
			return wk.Kind
		}
		n -= wk.Weight
	}
	return KindString
}

func (s *Synthesizer) fanout() int {
	if s.MaxFanout <= 1 {
		return 1
	}
	return 1 + s.R.IntN(s.MaxFanout)
}

// Synthesize builds a value at the given depth. Containers are only chosen while
// depth < MaxDepth, so a value at MaxDepth is always a scalar word.
func (s *Synthesizer) Synthesize(depth int) Value {
	if depth >= s.MaxDepth {
		return String(s.Text.Word())
	}

	switch kind := s.chooseKind(); kind {
	case KindString:
		return String(s.Text.Sentence(5, 20))
	case KindInt:
		return Int(int64(lexicon.Between(s.R, int(s.Ints.Min), int(s.Ints.Max))))
	case KindFloat:
		f := lexicon.Uniform(s.R, s.Floats.Min, s.Floats.Max)
		return Float(math.Round(f*100) / 100)
	case KindBool:
		return Bool(s.R.IntN(2) == 1)
	case KindNull:
		return Null()
	case KindSequence:
		n := s.fanout()
		items := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			// guard: the early return above already stops recursion at MaxDepth
			if depth+1 > s.MaxDepth {
				break
			}
			items = append(items, s.Synthesize(depth+1))
		}
		return Sequence(items)
	default:
		n := s.fanout()
		m := NewMapping()
		for i := 0; i < n; i++ {
			// guard: the early return above already stops recursion at MaxDepth
			if depth+1 > s.MaxDepth {
				break
			}
			m.Set(s.Text.Word(), s.Synthesize(depth+1))
		}
		return Map(m)
	}
}
