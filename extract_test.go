package godtc

import "testing"

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name  string
		ascii string
		want  string
		ok    bool
	}{
		{"single frame", "1: 43 03 01 43", "43030143", true},
		{"no whitespace after colon", "0:4301", "4301", true},
		{"lower case", "2: 4a 0b", "4A0B", true},
		{"header before sequence", "7E8 10: ab cd", "ABCD", true},
		{"vertical tab between bytes", "1: 43\v01", "4301", true},
		{"vertical tab after colon", "1:\v43 01", "4301", true},
		{"trailing prompt", "1: 43 01\r\n>", "4301", true},
		{"no sequence prefix", "43 01 02 03", "", false},
		{"colon without digits", ": 43 01", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPayload(tt.ascii)
			if ok != tt.ok {
				t.Fatalf("ExtractPayload(%q) ok = %v, want %v", tt.ascii, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ExtractPayload(%q) = %q, want %q", tt.ascii, got, tt.want)
			}
		})
	}
}
