package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"github.com/provide-io/fixturegen/pkg/fixture/value"
	"github.com/tidwall/jsonc"
)

const jsonIndent = "  "

// jsonEntry renders `  "key": value` at the first indentation level.
func jsonEntry(key string, v value.Value) ([]byte, error) {
	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(jsonIndent)
	buf.Write(k)
	buf.WriteString(": ")
	if err := json.Indent(&buf, raw, jsonIndent, jsonIndent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonCodec struct{}

// Entry counts the separator that follows the entry in the document.
func (jsonCodec) Entry(key string, v value.Value) (uint64, error) {
	data, err := jsonEntry(key, v)
	if err != nil {
		return 0, err
	}
	return uint64(len(data)) + 2, nil
}

func (jsonCodec) Document(root *value.Mapping) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range root.Keys() {
		v, _ := root.Get(key)
		data, err := jsonEntry(key, v)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.Write(data)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

type jsoncCodec struct {
	r       *rand.Rand
	lex     *lexicon.Random
	notes   map[string]string
	pending string
}

// Entry decides whether the entry carries a comment line and counts it.
func (c *jsoncCodec) Entry(key string, v value.Value) (uint64, error) {
	data, err := jsonEntry(key, v)
	if err != nil {
		return 0, err
	}
	c.pending = ""
	if c.r.IntN(3) == 0 {
		c.pending = jsonIndent + "// " + c.lex.DefaultSentence() + "\n"
	}
	return uint64(len(data)+len(c.pending)) + 2, nil
}

// Commit attaches the pending comment to an admitted entry.
func (c *jsoncCodec) Commit(key string) {
	if c.pending == "" {
		delete(c.notes, key)
		return
	}
	c.notes[key] = c.pending
}

func (c *jsoncCodec) Document(root *value.Mapping) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// " + c.lex.Title() + "\n")
	buf.WriteString("{\n")
	for i, key := range root.Keys() {
		v, _ := root.Get(key)
		data, err := jsonEntry(key, v)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString(c.notes[key])
		buf.Write(data)
	}
	if c.r.IntN(2) == 0 {
		buf.WriteString(",")
	}
	buf.WriteString("\n}\n")

	out := buf.Bytes()
	if !json.Valid(jsonc.ToJSON(out)) {
		return nil, fmt.Errorf("jsonc document does not reduce to valid json")
	}
	return out, nil
}
