package value

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"gopkg.in/yaml.v3"
)

func newSynth(seed uint64, yamlFlavour bool) *Synthesizer {
	r := rand.New(rand.NewPCG(seed, seed*31+7))
	if yamlFlavour {
		return NewYAMLSynthesizer(r, lexicon.New(r))
	}
	return NewJSONSynthesizer(r, lexicon.New(r))
}

func TestSynthesizeDepthBound(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "value_test",
		Level: hclog.Trace,
	})

	testCases := []struct {
		name  string
		yaml  bool
		start int
	}{
		{name: "json from root child", start: 1},
		{name: "json from zero", start: 0},
		{name: "yaml from root child", yaml: true, start: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSynth(42, tc.yaml)
			deepest := 0
			for i := 0; i < 500; i++ {
				v := s.Synthesize(tc.start)
				d := Depth(v)
				if d > deepest {
					deepest = d
				}
				if d+tc.start > s.MaxDepth {
					t.Fatalf("value at depth %d nests %d levels, max %d", tc.start, d, s.MaxDepth)
				}
			}
			logger.Info("🧪 Testing synthesizer depth", "test", tc.name, "deepest", deepest)
		})
	}
}

func TestSynthesizeAtMaxDepthIsScalar(t *testing.T) {
	s := newSynth(7, false)
	for i := 0; i < 200; i++ {
		v := s.Synthesize(s.MaxDepth)
		if v.Kind.IsContainer() {
			t.Fatalf("value at max depth has kind %s", v.Kind)
		}
	}
}

func TestSynthesizeRanges(t *testing.T) {
	s := newSynth(11, false)
	for i := 0; i < 1000; i++ {
		v := s.Synthesize(s.MaxDepth - 1)
		switch v.Kind {
		case KindInt:
			if v.Int < -10000 || v.Int > 10000 {
				t.Fatalf("int %d out of range", v.Int)
			}
		case KindFloat:
			if v.Float < -1000 || v.Float > 1000 {
				t.Fatalf("float %f out of range", v.Float)
			}
		case KindSequence:
			if len(v.Seq) < 1 || len(v.Seq) > 5 {
				t.Fatalf("sequence fan-out %d out of range", len(v.Seq))
			}
		case KindMapping:
			if v.Map.Len() < 1 || v.Map.Len() > 5 {
				t.Fatalf("mapping fan-out %d out of range", v.Map.Len())
			}
		}
	}
}

func TestYAMLFlavourHasNoNull(t *testing.T) {
	s := newSynth(13, true)
	for i := 0; i < 500; i++ {
		if v := s.Synthesize(s.MaxDepth - 1); v.Kind == KindNull {
			t.Fatal("yaml synthesizer produced null")
		}
	}
}

func TestMappingLastWriteWins(t *testing.T) {
	m := NewMapping()
	if m.Set("alpha", Int(1)) {
		t.Fatal("first Set reported an overwrite")
	}
	m.Set("beta", Int(2))
	if !m.Set("alpha", Int(3)) {
		t.Fatal("colliding Set did not report an overwrite")
	}

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if keys := m.Keys(); keys[0] != "alpha" || keys[1] != "beta" {
		t.Errorf("Keys() = %v, want [alpha beta]", keys)
	}
	if v, _ := m.Get("alpha"); v.Int != 3 {
		t.Errorf("alpha = %d, want 3", v.Int)
	}
}

func TestOrderedJSON(t *testing.T) {
	m := NewMapping()
	m.Set("zeta", String("last"))
	m.Set("alpha", Sequence([]Value{Int(1), Float(2.5), Bool(true), Null()}))

	data, err := json.Marshal(Map(m))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":"last","alpha":[1,2.5,true,null]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestYAMLNodeRoundTrip(t *testing.T) {
	m := NewMapping()
	m.Set("count", Int(12))
	m.Set("ratio", Float(3))
	m.Set("word", String("null"))
	m.Set("flag", Bool(false))

	data, err := yaml.Marshal(m.YAMLNode())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	if decoded["count"] != 12 {
		t.Errorf("count = %#v", decoded["count"])
	}
	if decoded["ratio"] != 3.0 {
		t.Errorf("ratio = %#v", decoded["ratio"])
	}
	if decoded["word"] != "null" {
		t.Errorf("word = %#v", decoded["word"])
	}
	if decoded["flag"] != false {
		t.Errorf("flag = %#v", decoded["flag"])
	}
}
