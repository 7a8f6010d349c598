// Package checksum provides checksum utilities supporting multiple algorithms with prefixed format.
//
// Format: "algorithm:hexvalue" (e.g., "blake3:c0ffee123...", "adler32:babe1337")
package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/adler32"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm represents supported checksum algorithms
type Algorithm int

const (
	BLAKE3 Algorithm = iota
	SHA256
	SHA512
	Adler32
)

// Default is the algorithm recorded for generated fixtures
const Default = BLAKE3

func (a Algorithm) String() string {
	switch a {
	case BLAKE3:
		return "blake3"
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	case Adler32:
		return "adler32"
	default:
		return "unknown"
	}
}

// ParseAlgorithm returns the algorithm with the given prefix name
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "blake3":
		return BLAKE3, nil
	case "sha256":
		return SHA256, nil
	case "sha512":
		return SHA512, nil
	case "adler32":
		return Adler32, nil
	default:
		return BLAKE3, fmt.Errorf("unknown checksum algorithm: %s", name)
	}
}

// Parse parses a checksum string that may or may not have a prefix
func Parse(checksumStr string) (Algorithm, string, error) {
	if prefix, value, ok := strings.Cut(checksumStr, ":"); ok {
		algo, err := ParseAlgorithm(prefix)
		if err != nil {
			return BLAKE3, "", err
		}
		return algo, value, nil
	}

	// Unprefixed - guess based on length
	switch len(checksumStr) {
	case 128:
		return SHA512, checksumStr, nil
	case 8:
		return Adler32, checksumStr, nil
	default:
		// blake3 and sha256 digests are both 64 hex characters
		return BLAKE3, checksumStr, nil
	}
}

// New returns a streaming hash for algorithm
func New(algorithm Algorithm) hash.Hash {
	switch algorithm {
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	case Adler32:
		return adler32.New()
	default:
		return blake3.New()
	}
}

// Format renders a finished hash with its prefix
func Format(algorithm Algorithm, h hash.Hash) string {
	return algorithm.String() + ":" + hex.EncodeToString(h.Sum(nil))
}

// Calculate calculates checksum with prefix
func Calculate(data []byte, algorithm Algorithm) string {
	h := New(algorithm)
	h.Write(data)
	return Format(algorithm, h)
}

// Verify verifies data against a checksum string
func Verify(data []byte, checksumStr string) (bool, error) {
	algo, expected, err := Parse(checksumStr)
	if err != nil {
		return false, err
	}

	_, actualHex, _ := strings.Cut(Calculate(data, algo), ":")
	return strings.EqualFold(actualHex, expected), nil
}
