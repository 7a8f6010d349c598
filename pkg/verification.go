package pkg

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-audio/wav"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture"
	"github.com/provide-io/fixturegen/pkg/fixture/archive"
	"github.com/provide-io/fixturegen/pkg/logging"
	"github.com/tidwall/jsonc"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gopkg.in/yaml.v3"
)

// FormatForPath resolves the registered format a file name belongs to. The longest
// matching extension wins, so "a.tar.gz" is tar.gz rather than gz.
func FormatForPath(reg *fixture.Registry, path string) (fixture.Format, error) {
	base := strings.ToLower(filepath.Base(path))

	var best fixture.Format
	found := false
	candidates := reg.Formats()
	for alias := range reg.Aliases() {
		candidates = append(candidates, alias)
	}
	for _, id := range candidates {
		f, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		for _, ext := range []string{id, f.Extension} {
			if !strings.HasSuffix(base, "."+ext) {
				continue
			}
			if !found || len(ext) > len(best.Extension) {
				best, found = f, true
				best.Extension = ext
			}
		}
	}
	if !found {
		return fixture.Format{}, fmt.Errorf("%w: %s", ErrUnknownExtension, filepath.Base(path))
	}
	resolved, _ := reg.Lookup(best.Name)
	return resolved, nil
}

// VerifyBytes decodes data as format and reports the first structural problem.
func VerifyBytes(format string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s: empty", ErrMalformedFixture, format)
	}
	if err := verify(format, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedFixture, format, err)
	}
	return nil
}

func verify(format string, data []byte) error {
	switch format {
	case "json":
		if !json.Valid(data) {
			return errors.New("invalid JSON")
		}
	case "jsonc":
		if !json.Valid(jsonc.ToJSON(data)) {
			return errors.New("invalid JSON after stripping comments")
		}
	case "yaml":
		var node yaml.Node
		return yaml.Unmarshal(data, &node)
	case "xml", "svg":
		return verifyXML(data)
	case "cbor":
		return cbor.Wellformed(data)
	case "csv":
		cr := csv.NewReader(bytes.NewReader(data))
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		records, err := cr.ReadAll()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return errors.New("no header row")
		}
	case "gif":
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if len(g.Image) != len(g.Delay) {
			return fmt.Errorf("%d frames but %d delays", len(g.Image), len(g.Delay))
		}
	case "png", "jpg", "bmp", "tiff":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
			return fmt.Errorf("empty canvas %v", b)
		}
	case "wav":
		return verifyWAV(data)
	case "rtf":
		if !bytes.HasPrefix(data, []byte(`{\rtf1`)) || !bytes.HasSuffix(bytes.TrimSpace(data), []byte("}")) {
			return errors.New("missing rtf group")
		}
	case "html":
		if !bytes.Contains(data, []byte("<html")) || !bytes.Contains(data, []byte("</html>")) {
			return errors.New("missing html element")
		}
	default:
		if strings.HasPrefix(format, "tar") || format == "zip" {
			return verifyArchive(format, data)
		}
		if !utf8.Valid(data) {
			return errors.New("not valid UTF-8")
		}
	}
	return nil
}

func verifyXML(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots != 1 {
		return fmt.Errorf("expected one root element, found %d", roots)
	}
	return nil
}

func verifyWAV(data []byte) error {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return errors.New("invalid RIFF/WAVE header")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return err
	}
	if buf.NumFrames() == 0 {
		return errors.New("no samples")
	}
	return nil
}

func verifyArchive(format string, data []byte) error {
	entries, err := archive.Read(format, data)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no entries")
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateEntryName, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// VerifyFileWithLogger verifies one generated file and logs the outcome.
func VerifyFileWithLogger(path string, logger hclog.Logger) error {
	f, err := FormatForPath(fixture.DefaultRegistry(), path)
	if err != nil {
		logger.Error("❌ Cannot verify file", "file", path, "error", err)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("❌ Failed to read file", "file", path, "error", err)
		return err
	}

	if err := VerifyBytes(f.Name, data); err != nil {
		logger.Error("✗ Verification failed", "file", path, "format", f.Name, "error", err)
		return err
	}
	logger.Info("✓ Fixture valid", "file", path, "format", f.Name, "bytes", len(data))
	return nil
}

// VerifyFiles verifies every path and returns how many failed. Each file is checked
// independently.
func VerifyFiles(paths []string, logger hclog.Logger) int {
	if logger == nil {
		logger = logging.NewLogger("fixturegen-verify", "info", nil)
	}
	failed := 0
	for _, p := range paths {
		if err := VerifyFileWithLogger(p, logger); err != nil {
			failed++
		}
	}
	if failed == 0 {
		logger.Info("✓ Verification passed", "files", len(paths))
	} else {
		logger.Error("✗ Verification failed", "files", len(paths), "error_count", failed)
	}
	return failed
}
