package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/provide-io/fixturegen/pkg/fixture/operations"
)

// zstd.Encoder and zstd.Decoder are safe for concurrent use with EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}

	operations.Register(NewZstdOperation())
}

// ZstdOperation implements Zstandard compression
type ZstdOperation struct {
	operations.BaseOperation
}

// NewZstdOperation creates a new ZSTD operation
func NewZstdOperation() *ZstdOperation {
	return &ZstdOperation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_ZSTD,
			OpName: "ZSTD",
			OpExt:  "zst",
		},
	}
}

// Apply compresses data into a single zstd frame
func (o *ZstdOperation) Apply(input []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(input, nil), nil
}

// Reverse decompresses zstd data
func (o *ZstdOperation) Reverse(input []byte) ([]byte, error) {
	data, err := zstdDecoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return data, nil
}
