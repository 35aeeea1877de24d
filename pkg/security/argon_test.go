package security

import (
	"strings"
	"testing"
)

func TestGenerateFromPassword(t *testing.T) {
	a := New()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"empty password", ""},
		{"long password", strings.Repeat("a", 200)},
		{"unicode password", "pässwörd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := a.GenerateFromPassword(tt.password)
			if err != nil {
				t.Fatalf("GenerateFromPassword() error = %v", err)
			}
			if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
				t.Errorf("GenerateFromPassword() = %q, want PHC argon2id prefix", encoded)
			}
		})
	}
}

func TestGenerateFromPassword_UniqueSalts(t *testing.T) {
	a := New()

	h1, _ := a.GenerateFromPassword("samepassword")
	h2, _ := a.GenerateFromPassword("samepassword")

	if h1 == h2 {
		t.Error("GenerateFromPassword() should produce different hashes for the same password")
	}
}

func TestVerifyPasswd(t *testing.T) {
	a := New()

	encoded, err := a.GenerateFromPassword("correct horse")
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		encoded  string
		want     bool
		wantErr  bool
	}{
		{"correct password", "correct horse", encoded, true, false},
		{"wrong password", "battery staple", encoded, false, false},
		{"empty password", "", encoded, false, false},
		{"garbage hash", "correct horse", "not-a-hash", false, true},
		{"truncated hash", "correct horse", "$argon2id$v=19$m=65536", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := a.VerifyPasswd(tt.password, tt.encoded)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyPasswd() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.want {
				t.Errorf("VerifyPasswd() = %v, want %v", ok, tt.want)
			}
		})
	}
}
