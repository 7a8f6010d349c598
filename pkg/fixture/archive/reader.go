package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/provide-io/fixturegen/pkg/fixture/operations"
)

// maxEntrySize bounds a single entry read back from an archive.
const maxEntrySize = 1 << 30

// Read unpacks an archive produced by the container named format ("zip", "tar",
// "tar.gz", ...).
func Read(format string, data []byte) ([]Entry, error) {
	if format == "zip" {
		return readZip(data)
	}

	ops, err := operations.ParseChain(format)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 || ops[0] != operations.OP_TAR {
		return nil, fmt.Errorf("%s is not a tar chain", format)
	}
	raw, err := operations.ReverseChain(data, ops[1:])
	if err != nil {
		return nil, err
	}
	return readTar(raw)
}

func readZip(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.UncompressedSize64 > maxEntrySize {
			return nil, fmt.Errorf("invalid entry size: %d", f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Payload: payload})
	}
	return entries, nil
}

func readTar(data []byte) ([]Entry, error) {
	tr := tar.NewReader(bytes.NewReader(data))

	var entries []Entry
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}

		// Validate size
		if header.Size < 0 || header.Size > maxEntrySize {
			return nil, fmt.Errorf("invalid file size: %d", header.Size)
		}

		payload := make([]byte, header.Size)
		if _, err := io.ReadFull(tr, payload); err != nil {
			return nil, fmt.Errorf("reading tar data: %w", err)
		}
		entries = append(entries, Entry{Name: header.Name, Payload: payload})
	}
}
