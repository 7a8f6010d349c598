package checksum

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestCalculate(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "checksum_test",
		Level: hclog.Trace,
	})

	testCases := []struct {
		algo     Algorithm
		expected string
	}{
		{SHA256, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{Adler32, "adler32:062c0215"},
		{BLAKE3, "blake3:ea8f163db38682925e4491c5e58d4bb3506ef8c14eb78a86e908c5624a67200f"},
	}

	for _, tc := range testCases {
		t.Run(tc.algo.String(), func(t *testing.T) {
			logger.Info("🧪 Testing checksum", "algorithm", tc.algo)
			if got := Calculate([]byte("hello"), tc.algo); got != tc.expected {
				t.Errorf("Calculate = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		input   string
		algo    Algorithm
		value   string
		wantErr bool
	}{
		{input: "sha512:abcd", algo: SHA512, value: "abcd"},
		{input: "BLAKE3:ff", algo: BLAKE3, value: "ff"},
		{input: "062c0215", algo: Adler32, value: "062c0215"},
		{input: strings.Repeat("a", 128), algo: SHA512, value: strings.Repeat("a", 128)},
		{input: "md5:abcd", wantErr: true},
	}

	for _, tc := range testCases {
		algo, value, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil || algo != tc.algo || value != tc.value {
			t.Errorf("Parse(%q) = %v, %q, %v", tc.input, algo, value, err)
		}
	}
}

func TestVerify(t *testing.T) {
	data := []byte("fixture payload")
	sum := Calculate(data, Default)

	ok, err := Verify(data, sum)
	if err != nil || !ok {
		t.Errorf("Verify(own checksum) = %v, %v", ok, err)
	}
	ok, err = Verify([]byte("tampered"), sum)
	if err != nil || ok {
		t.Errorf("Verify(tampered) = %v, %v", ok, err)
	}
}

func TestStreamingMatchesCalculate(t *testing.T) {
	h := New(BLAKE3)
	h.Write([]byte("fixture "))
	h.Write([]byte("payload"))
	if got, want := Format(BLAKE3, h), Calculate([]byte("fixture payload"), BLAKE3); got != want {
		t.Errorf("streaming %s != %s", got, want)
	}
}
