package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		raw       string
		wantLevel string
		wantJSON  bool
	}{
		{raw: "", wantLevel: "info"},
		{raw: "DEBUG", wantLevel: "debug"},
		{raw: "json", wantLevel: "info", wantJSON: true},
		{raw: "json:trace", wantLevel: "trace", wantJSON: true},
		{raw: "json:", wantLevel: "info", wantJSON: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			level, jsonFormat := ParseLevel(tc.raw)
			if level != tc.wantLevel || jsonFormat != tc.wantJSON {
				t.Errorf("ParseLevel(%q) = %q, %v; want %q, %v", tc.raw, level, jsonFormat, tc.wantLevel, tc.wantJSON)
			}
		})
	}
}

func TestResolveLevel(t *testing.T) {
	t.Setenv("FIXTUREGEN_LOG_LEVEL", "warn")

	if level, source := ResolveLevel("debug"); level != "debug" || source != "CLI --log-level" {
		t.Errorf("flag: got %q from %q", level, source)
	}
	if level, source := ResolveLevel(""); level != "warn" || source != "FIXTUREGEN_LOG_LEVEL" {
		t.Errorf("env: got %q from %q", level, source)
	}

	t.Setenv("FIXTUREGEN_LOG_LEVEL", "")
	if level, source := ResolveLevel(""); level != "info" || source != "default" {
		t.Errorf("default: got %q from %q", level, source)
	}
}

func TestPrefixedOutput(t *testing.T) {
	t.Setenv("FIXTUREGEN_JSON_LOG", "")
	var buf bytes.Buffer
	logger := NewLogger("test", "info", &buf)
	logger.Info("✅ hello", "key", "value")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.HasPrefix(out, Prefix) {
		t.Errorf("line not prefixed: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line logged at info level")
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected one line, got %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Name: "test", Level: "json:debug", Output: &buf})
	logger.Debug("📦 packed", "entries", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not json: %v: %q", err, buf.String())
	}
	if line["@message"] != "📦 packed" {
		t.Errorf("message = %v", line["@message"])
	}
}

func TestPrefixWriterBuffersPartialLines(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("> ", &buf)
	pw.Write([]byte("first "))
	if buf.Len() != 0 {
		t.Errorf("partial line flushed early: %q", buf.String())
	}
	pw.Write([]byte("line\nsecond line\n"))
	if got := buf.String(); got != "> first line\n> second line\n" {
		t.Errorf("got %q", got)
	}
}

func TestPrefixWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("> ", &buf)
	pw.Write([]byte("no newline"))
	if err := pw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "> no newline" {
		t.Errorf("got %q", got)
	}
}
