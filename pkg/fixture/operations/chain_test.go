package operations_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture/operations"
	_ "github.com/provide-io/fixturegen/pkg/fixture/operations/compress"
)

// TestParseChain tests chain names and pipe lists
func TestParseChain(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "chain_test",
		Level: hclog.Trace,
	})

	testCases := []struct {
		name     string
		input    string
		expected []uint8
		wantErr  bool
	}{
		{name: "raw", input: "raw", expected: []uint8{}},
		{name: "empty", input: "", expected: nil},
		{name: "tar.gz", input: "tar.gz", expected: []uint8{operations.OP_TAR, operations.OP_GZIP}},
		{name: "upper case", input: "TAR.BZ2", expected: []uint8{operations.OP_TAR, operations.OP_BZIP2}},
		{name: "tgz alias", input: "tgz", expected: []uint8{operations.OP_TAR, operations.OP_GZIP}},
		{name: "pipe list", input: "tar|zstd", expected: []uint8{operations.OP_TAR, operations.OP_ZSTD}},
		{name: "lz4", input: "tar.lz4", expected: []uint8{operations.OP_TAR, operations.OP_LZ4}},
		{name: "unknown", input: "tar.xz", wantErr: true},
		{name: "unknown pipe member", input: "tar|rot13", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Testing chain parsing", "test", tc.name, "input", tc.input)

			ops, err := operations.ParseChain(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChain(%q): %v", tc.input, err)
			}
			if !bytes.Equal(ops, tc.expected) {
				t.Errorf("ParseChain(%q) = %v, want %v", tc.input, ops, tc.expected)
			}
		})
	}
}

// TestChainName tests round trips between IDs and dotted names
func TestChainName(t *testing.T) {
	for _, name := range operations.TarChains() {
		ops, err := operations.ParseChain(name)
		if err != nil {
			t.Fatalf("ParseChain(%q): %v", name, err)
		}
		if got := operations.ChainName(ops); got != name {
			t.Errorf("ChainName(%v) = %q, want %q", ops, got, name)
		}
	}
	if got := operations.ChainName(nil); got != "raw" {
		t.Errorf("ChainName(nil) = %q", got)
	}
}

// TestCompressionRoundTrip tests every registered compression operation
func TestCompressionRoundTrip(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "chain_test",
		Level: hclog.Trace,
	})

	input := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))

	for _, id := range []uint8{operations.OP_GZIP, operations.OP_BZIP2, operations.OP_ZSTD, operations.OP_LZ4} {
		op, err := operations.Get(id)
		if err != nil {
			t.Fatalf("operation %s not registered: %v", operations.GetName(id), err)
		}

		t.Run(op.Name(), func(t *testing.T) {
			compressed, err := operations.ApplyChain(input, []uint8{id})
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			logger.Debug("📦 Compressed", "op", op.Name(), "in", len(input), "out", len(compressed))
			if len(compressed) >= len(input) {
				t.Errorf("%s did not shrink repetitive input: %d >= %d", op.Name(), len(compressed), len(input))
			}

			restored, err := operations.ReverseChain(compressed, []uint8{id})
			if err != nil {
				t.Fatalf("reverse: %v", err)
			}
			if !bytes.Equal(restored, input) {
				t.Error("round trip changed the data")
			}
		})
	}
}

// TestApplyChainUnknown tests that unregistered IDs fail
func TestApplyChainUnknown(t *testing.T) {
	if _, err := operations.ApplyChain([]byte("x"), []uint8{0x7f}); err == nil {
		t.Error("expected error for unregistered operation")
	}
	if got := operations.GetName(0x7f); got != "UNKNOWN_7f" {
		t.Errorf("GetName = %q", got)
	}
}
