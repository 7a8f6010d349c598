// Package value models the randomly-typed trees used by tree-shaped dialects.
package value

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// IsContainer reports whether the kind holds children.
func (k Kind) IsContainer() bool {
	return k == KindSequence || k == KindMapping
}

// Value is a tagged scalar, sequence or mapping.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Seq   []Value
	Map   *Mapping
}

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Null() Value { return Value{Kind: KindNull} }
func Sequence(items []Value) Value { return Value{Kind: KindSequence, Seq: items} }
func Map(m *Mapping) Value { return Value{Kind: KindMapping, Map: m} }

// Mapping is an insertion-ordered string-keyed map. Setting an existing key replaces
// its value in place; keys are never deduplicated ahead of time.
type Mapping struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set stores v under key and reports whether an earlier value was overwritten.
func (m *Mapping) Set(key string, v Value) bool {
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return true
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
	return false
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.values[i], true
}

// Len returns the number of distinct keys.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *Mapping) Each(fn func(key string, v Value)) {
	for i, k := range m.keys {
		fn(k, m.values[i])
	}
}

// Depth returns the container nesting of v. Scalars have depth 0.
func Depth(v Value) int {
	deepest := 0
	switch v.Kind {
	case KindSequence:
		for _, item := range v.Seq {
			if d := Depth(item); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case KindMapping:
		v.Map.Each(func(_ string, child Value) {
			if d := Depth(child); d > deepest {
				deepest = d
			}
		})
		return deepest + 1
	default:
		return 0
	}
}

// Native converts v into plain Go values (map[string]any, []any, scalars).
func (v Value) Native() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindSequence:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = item.Native()
		}
		return out
	case KindMapping:
		return v.Map.Native()
	default:
		return nil
	}
}

// Native converts m into a map[string]any.
func (m *Mapping) Native() map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(k string, v Value) { out[k] = v.Native() })
	return out
}

// MarshalJSON encodes v keeping mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindInt:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KindFloat:
		return json.Marshal(v.Float)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		return v.Map.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON encodes m keeping key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := m.values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// YAMLNode builds a yaml.v3 node tree for v keeping mapping key order.
func (v Value) YAMLNode() *yaml.Node {
	switch v.Kind {
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int, 10)}
	case KindFloat:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Seq {
			node.Content = append(node.Content, item.YAMLNode())
		}
		return node
	case KindMapping:
		return v.Map.YAMLNode()
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// YAMLNode builds a yaml.v3 mapping node for m.
func (m *Mapping) YAMLNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Each(func(k string, v Value) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			v.YAMLNode(),
		)
	})
	return node
}
