package permissions

import "testing"

func TestParseOctalString(t *testing.T) {
	testCases := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{input: "", want: DefaultFilePerms},
		{input: "644", want: 0o644},
		{input: "0644", want: 0o644},
		{input: "0o600", want: 0o600},
		{input: "0O755", want: 0o755},
		{input: "0", want: 0},
		{input: "000", want: 0},
		{input: "999", wantErr: true},
		{input: "7777", wantErr: true},
		{input: "rw-r--r--", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOctalString(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseOctalString(%q) accepted", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOctalString(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseOctalString(%q) = %o, want %o", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatOctal(t *testing.T) {
	if got := FormatOctal(0o640); got != "0640" {
		t.Errorf("FormatOctal = %q", got)
	}
	if !IsTraversable(DefaultDirPerms) || IsTraversable(DefaultFilePerms) {
		t.Error("traversable bits wrong for defaults")
	}
	if !IsWritable(DefaultFilePerms) || IsWritable(0o444) {
		t.Error("writable bit wrong")
	}
}
