package util

import "testing"

func TestByteSize(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 999, "999 B"},
		{"exact kilobyte", 1000, "1 kB"},
		{"kilobytes", 1536, "1.5 kB"},
		{"megabytes", 2_500_000, "2.5 MB"},
		{"gigabytes", 3_000_000_000, "3 GB"},
		{"terabytes", 1_200_000_000_000, "1.2 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByteSize(tt.in); got != tt.want {
				t.Errorf("ByteSize(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRandStrLength(t *testing.T) {
	for _, n := range []int{1, 5, 10, 64} {
		if got := RandStr(n); len(got) != n {
			t.Errorf("RandStr(%d) returned %d characters", n, len(got))
		}
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(64)
	if err != nil {
		t.Fatalf("GenerateToken(64) error = %v", err)
	}
	if len(tok) != 128 {
		t.Errorf("GenerateToken(64) returned %d characters, want 128", len(tok))
	}

	other, _ := GenerateToken(64)
	if tok == other {
		t.Error("GenerateToken() should not repeat keys")
	}
}
