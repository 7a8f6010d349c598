package pkg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
)

func testLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.Trace,
	})
}

func TestEveryFormatVerifies(t *testing.T) {
	logger := testLogger("verification_test")
	engine := fixture.NewEngine(logger)

	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			res, err := engine.Generate(context.Background(), fixture.Request{
				Format:      name,
				Destination: &buf,
				BudgetBytes: 8 << 10,
				Seed:        42,
			})
			if err != nil {
				t.Fatalf("generate %s: %v", name, err)
			}
			logger.Debug("🧪 Testing verification", "format", name, "bytes", res.BytesWritten)

			if err := VerifyBytes(res.Format, buf.Bytes()); err != nil {
				t.Errorf("VerifyBytes(%s) = %v", name, err)
			}
		})
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	testCases := []struct {
		name   string
		format string
		data   []byte
	}{
		{name: "empty", format: "txt", data: nil},
		{name: "broken json", format: "json", data: []byte(`{"a": [1, 2`)},
		{name: "two xml roots", format: "xml", data: []byte(`<a/><b/>`)},
		{name: "png garbage", format: "png", data: []byte("not a png")},
		{name: "wav garbage", format: "wav", data: []byte("RIFF....WAVE")},
		{name: "zip garbage", format: "zip", data: []byte("PK nope")},
		{name: "rtf without group", format: "rtf", data: []byte("plain text")},
		{name: "invalid utf8", format: "txt", data: []byte{0xff, 0xfe, 0xfd}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyBytes(tc.format, tc.data)
			if !errors.Is(err, ErrMalformedFixture) {
				t.Errorf("VerifyBytes(%s) = %v, want ErrMalformedFixture", tc.format, err)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	reg := fixture.DefaultRegistry()
	testCases := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "report.json", want: "json"},
		{path: "/tmp/Notes.TXT", want: "txt"},
		{path: "bundle.tar.gz", want: "tar.gz"},
		{path: "bundle.tgz", want: "tar.gz"},
		{path: "photo.jpeg", want: "jpg"},
		{path: "data.tar", want: "tar"},
		{path: "config.yml", want: "yaml"},
		{path: "mystery.xyz", wantErr: true},
		{path: "noextension", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			f, err := FormatForPath(reg, tc.path)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownExtension) {
					t.Errorf("FormatForPath(%q) = %v, want ErrUnknownExtension", tc.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatForPath(%q): %v", tc.path, err)
			}
			if f.Name != tc.want {
				t.Errorf("FormatForPath(%q) = %s, want %s", tc.path, f.Name, tc.want)
			}
		})
	}
}

func TestGenerateFileAndVerify(t *testing.T) {
	dir := t.TempDir()
	logger := testLogger("verification_test")

	var paths []string
	for _, format := range []string{"csv", "yaml", "gif", "tar.zst"} {
		path := filepath.Join(dir, "fixture."+format)
		res, err := GenerateFile(context.Background(), format, path, 4<<10)
		if err != nil {
			t.Fatalf("GenerateFile(%s): %v", format, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if uint64(info.Size()) != res.BytesWritten {
			t.Errorf("%s: file is %d bytes, result says %d", format, info.Size(), res.BytesWritten)
		}
		paths = append(paths, path)
	}

	if failed := VerifyFiles(paths, logger); failed != 0 {
		t.Errorf("VerifyFiles reported %d failures", failed)
	}
}

func TestGenerateFileUnsupportedLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xyz")

	_, err := GenerateFile(context.Background(), "unknown-xyz", path, 100)
	if !errors.Is(err, fxerrors.ErrUnsupportedFormat) {
		t.Fatalf("GenerateFile = %v, want ErrUnsupportedFormat", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %d entries after a failed run", len(entries))
	}
}
