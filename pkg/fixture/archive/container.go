package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"github.com/provide-io/fixturegen/pkg/fixture/operations"
	_ "github.com/provide-io/fixturegen/pkg/fixture/operations/compress"
)

// Container is one archive format. A zip container has no chain; tar containers name
// an operation chain that starts with OP_TAR.
type Container struct {
	name   string
	chain  []uint8
	Packer *Packer
}

func (c *Container) Name() string      { return c.name }
func (c *Container) Extension() string { return c.name }

// Generate packs a fresh set of entries. Entries are all generated before the
// container is written.
func (c *Container) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	entries, err := c.Packer.Entries(r, b)
	if err != nil {
		return nil, err
	}
	modified := lexicon.New(r).Date()

	if c.chain == nil {
		return Zip(entries, modified)
	}
	data, err := Tar(entries, modified)
	if err != nil {
		return nil, err
	}
	return operations.ApplyChain(data, c.chain[1:])
}

// Containers returns zip, tar and every compressed tar chain. Tar chains are sized by
// their uncompressed footprint.
func Containers() []*Container {
	zp := NewPacker()
	zp.Footprint = ZipFootprint
	out := []*Container{{name: "zip", Packer: zp}}
	for _, name := range operations.TarChains() {
		ops, err := operations.ParseChain(name)
		if err != nil {
			continue
		}
		tp := NewPacker()
		tp.Footprint = TarFootprint
		out = append(out, &Container{name: name, chain: ops, Packer: tp})
	}
	return out
}

const (
	tarBlockSize = 512
	// tarNameSize is the ustar name field; longer names need a PAX header.
	tarNameSize = 100
	// zipEntryOverhead covers the local header, data descriptor, central directory
	// record, both extended timestamp fields and deflate block framing.
	zipEntryOverhead = 160
)

// TarFootprint is a header block plus the payload padded to whole blocks. The
// two-block end-of-archive marker is wrapper, not part of any entry.
func TarFootprint(name string, size int) uint64 {
	blocks := 1 + (size+tarBlockSize-1)/tarBlockSize
	if len(name) > tarNameSize {
		blocks += 2
	}
	return uint64(blocks * tarBlockSize)
}

// ZipFootprint is the payload plus both copies of the name and the fixed per-entry
// records. The end-of-central-directory record is wrapper.
func ZipFootprint(name string, size int) uint64 {
	stored := size + 5*(size/65535+1)
	return uint64(zipEntryOverhead + 2*len(name) + stored)
}

// Zip writes entries into a deflated zip archive.
func Zip(entries []Entry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Payload); err != nil {
			return nil, fmt.Errorf("writing %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Tar writes entries into an uncompressed POSIX tar archive.
func Tar(entries []Entry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, e := range entries {
		header := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     e.Name,
			Mode:     0644,
			Size:     int64(len(e.Payload)),
			ModTime:  modified,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("writing tar header: %w", err)
		}
		if _, err := tw.Write(e.Payload); err != nil {
			return nil, fmt.Errorf("writing tar data: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}
	return buf.Bytes(), nil
}
