// Package permissions provides utilities for parsing and handling file permissions
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default permission constants for generated output
const (
	DefaultFilePerms = 0o644 // Read/write for owner, read for everyone else
	DefaultDirPerms  = 0o755 // Traversable by everyone, writable by owner
)

// ParseOctalString parses an octal permission string into a uint16
// Handles formats like "644", "0644", "0o644"
func ParseOctalString(s string) (uint16, error) {
	if s == "" {
		return DefaultFilePerms, nil
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	if len(digits) > 1 {
		digits = strings.TrimLeft(digits, "0")
	}
	if digits == "" {
		digits = "0"
	}

	val, err := strconv.ParseUint(digits, 8, 16)
	if err != nil {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val > 0o777 {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q: only permission bits are allowed", s)
	}

	return uint16(val), nil
}

// ParseFileMode is ParseOctalString returning an os.FileMode
func ParseFileMode(s string) (os.FileMode, error) {
	perm, err := ParseOctalString(s)
	return os.FileMode(perm), err
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm uint16) string {
	return fmt.Sprintf("0%o", perm)
}

// IsWritable checks if permissions include the write bit for owner
func IsWritable(perm uint16) bool {
	return perm&0o200 != 0
}

// IsTraversable checks if permissions are appropriate for a directory
func IsTraversable(perm uint16) bool {
	// Directories need execute permission to be traversable
	return perm&0o100 != 0
}
