package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/provide-io/fixturegen/pkg/fixture/operations"
)

func init() {
	operations.Register(NewLz4Operation())
}

// Lz4Operation implements LZ4 frame compression, readable by the lz4 command line tool
type Lz4Operation struct {
	operations.BaseOperation
}

// NewLz4Operation creates a new LZ4 operation
func NewLz4Operation() *Lz4Operation {
	return &Lz4Operation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_LZ4,
			OpName: "LZ4",
			OpExt:  "lz4",
		},
	}
}

// Apply compresses data as an LZ4 frame
func (o *Lz4Operation) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer

	lw := lz4.NewWriter(&buf)
	if _, err := lw.Write(input); err != nil {
		lw.Close()
		return nil, fmt.Errorf("writing lz4 data: %w", err)
	}

	if err := lw.Close(); err != nil {
		return nil, fmt.Errorf("closing lz4 writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Reverse decompresses an LZ4 frame
func (o *Lz4Operation) Reverse(input []byte) ([]byte, error) {
	data, err := io.ReadAll(lz4.NewReader(bytes.NewReader(input)))
	if err != nil {
		return nil, fmt.Errorf("reading lz4 data: %w", err)
	}
	return data, nil
}
