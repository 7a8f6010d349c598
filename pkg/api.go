// Package pkg is the library entry point for generating and checking fixtures
package pkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/internal/outdir"
	"github.com/provide-io/fixturegen/pkg/fixture"
)

// Formats lists every supported format identifier
func Formats() []string {
	return fixture.DefaultRegistry().Formats()
}

// Generate writes one fixture of format to w, sized to about budgetBytes
func Generate(ctx context.Context, format string, w io.Writer, budgetBytes uint64) (fixture.Result, error) {
	return GenerateWithLogger(ctx, format, w, budgetBytes, nil)
}

// GenerateWithLogger is Generate with engine logging sent to logger
func GenerateWithLogger(ctx context.Context, format string, w io.Writer, budgetBytes uint64, logger hclog.Logger) (fixture.Result, error) {
	return fixture.NewEngine(logger).Generate(ctx, fixture.Request{
		Format:      format,
		Destination: w,
		BudgetBytes: budgetBytes,
	})
}

// GenerateFile writes one fixture to path. The file appears only once it is
// complete; a failed run leaves nothing behind.
func GenerateFile(ctx context.Context, format, path string, budgetBytes uint64) (fixture.Result, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := outdir.TempFile(dir, name)
	if err != nil {
		return fixture.Result{}, err
	}

	res, genErr := Generate(ctx, format, tmp, budgetBytes)
	err = errors.Join(genErr, tmp.Close())
	if err == nil {
		err = outdir.Commit(tmp.Name(), path, 0)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fixture.Result{}, err
	}
	return res, nil
}

// VerifyFile checks that the file at path is a well-formed instance of the format
// its extension names
func VerifyFile(path string) error {
	f, err := FormatForPath(fixture.DefaultRegistry(), path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return VerifyBytes(f.Name, data)
}
