package operations

import (
	"fmt"
	"sort"
	"strings"
)

// Named chains for parsing
var namedChains = map[string][]uint8{
	// Raw data
	"raw": {},

	// Single operations
	"gzip":  {OP_GZIP},
	"bzip2": {OP_BZIP2},
	"zstd":  {OP_ZSTD},
	"lz4":   {OP_LZ4},
	"tar":   {OP_TAR},

	// Common compound operations
	"tar.gz":  {OP_TAR, OP_GZIP},
	"tar.bz2": {OP_TAR, OP_BZIP2},
	"tar.zst": {OP_TAR, OP_ZSTD},
	"tar.lz4": {OP_TAR, OP_LZ4},

	// Alternative names
	"tgz":  {OP_TAR, OP_GZIP},
	"tbz2": {OP_TAR, OP_BZIP2},
}

// Named operations for parsing
var namedOperations = map[string]uint8{
	"TAR":   OP_TAR,
	"GZIP":  OP_GZIP,
	"BZIP2": OP_BZIP2,
	"ZSTD":  OP_ZSTD,
	"LZ4":   OP_LZ4,
}

// ParseChain parses a chain name ("tar.gz") or a pipe list ("tar|gzip") into
// operation IDs in execution order.
func ParseChain(name string) ([]uint8, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}

	if ops, ok := namedChains[name]; ok {
		return append([]uint8(nil), ops...), nil
	}

	if strings.Contains(name, "|") {
		var ops []uint8
		for _, part := range strings.Split(name, "|") {
			part = strings.TrimSpace(strings.ToUpper(part))
			if part == "" {
				continue
			}

			op, ok := namedOperations[part]
			if !ok {
				return nil, fmt.Errorf("unsupported operation: %s", part)
			}
			ops = append(ops, op)
		}
		return ops, nil
	}

	return nil, fmt.Errorf("unknown operation chain: %s", name)
}

// ChainName returns the dotted name of ops, e.g. "tar.gz".
func ChainName(ops []uint8) string {
	if len(ops) == 0 {
		return "raw"
	}
	parts := make([]string, 0, len(ops))
	for _, id := range ops {
		if id == OP_TAR {
			parts = append(parts, "tar")
			continue
		}
		op, err := Get(id)
		if err != nil {
			parts = append(parts, strings.ToLower(GetName(id)))
			continue
		}
		parts = append(parts, op.Extension())
	}
	return strings.Join(parts, ".")
}

// TarChains returns every named chain that bundles with TAR, sorted.
func TarChains() []string {
	var names []string
	for name, ops := range namedChains {
		if len(ops) > 0 && ops[0] == OP_TAR && strings.HasPrefix(name, "tar") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	for _, opID := range operations {
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	// Apply operations in reverse order
	for i := len(operations) - 1; i >= 0; i-- {
		opID := operations[i]
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}
