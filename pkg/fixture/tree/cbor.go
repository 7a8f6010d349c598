package tree

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/provide-io/fixturegen/pkg/fixture/value"
)

// encMode uses Core Deterministic Encoding: sorted map keys and the smallest
// integer and float encodings.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("tree: CBOR encoder initialization failed: " + err.Error())
	}
}

type cborCodec struct{}

// Entry measures the encoded key and value; the map header is the only wrapper.
func (cborCodec) Entry(key string, v value.Value) (uint64, error) {
	k, err := encMode.Marshal(key)
	if err != nil {
		return 0, err
	}
	data, err := encMode.Marshal(v.Native())
	if err != nil {
		return 0, err
	}
	return uint64(len(k) + len(data)), nil
}

func (cborCodec) Document(root *value.Mapping) ([]byte, error) {
	return encMode.Marshal(root.Native())
}
