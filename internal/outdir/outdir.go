// Package outdir manages the directory a batch writes into
package outdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/provide-io/fixturegen/pkg/utils/permissions"
)

// DefaultPath is used when no output path is configured
const DefaultPath = "generated_files"

// Resolve returns the absolute form of path, defaulting to DefaultPath
func Resolve(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path %q: %w", path, err)
	}
	return abs, nil
}

// Create creates the output directory. mode 0 means permissions.DefaultDirPerms.
func Create(path string, mode os.FileMode) error {
	if mode == 0 {
		mode = permissions.DefaultDirPerms
	}
	if !permissions.IsTraversable(uint16(mode.Perm())) {
		return fmt.Errorf("directory mode %s is not traversable", permissions.FormatOctal(uint16(mode.Perm())))
	}

	if err := os.MkdirAll(path, mode); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", path)
	}
	return nil
}

// Exists reports whether name is already taken inside dir
func Exists(dir, name string) bool {
	_, err := os.Lstat(filepath.Join(dir, name))
	return err == nil
}

// TempFile creates a hidden staging file for name inside dir, so the final rename
// never crosses a filesystem boundary.
func TempFile(dir, name string) (*os.File, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	return f, nil
}

// Commit moves a finished staging file into place and applies mode
func Commit(tempPath, destPath string, mode os.FileMode) error {
	if mode == 0 {
		mode = permissions.DefaultFilePerms
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
