package tree

import (
	"bytes"

	"github.com/provide-io/fixturegen/pkg/fixture/value"
	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

func encodeYAML(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Entry measures a one-entry block mapping, which is how the entry appears in the root.
func (yamlCodec) Entry(key string, v value.Value) (uint64, error) {
	single := value.NewMapping()
	single.Set(key, v)
	data, err := encodeYAML(single.YAMLNode())
	if err != nil {
		return 0, err
	}
	return uint64(len(data)), nil
}

func (yamlCodec) Document(root *value.Mapping) ([]byte, error) {
	return encodeYAML(root.YAMLNode())
}
