package service

import (
	"errors"
	"testing"
)

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	token, err := f.tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(token.Key) != 128 {
		t.Errorf("token key is %d characters, want 128", len(token.Key))
	}
	if token.Uses != 100 {
		t.Errorf("token uses = %d, want 100", token.Uses)
	}

	// One live token per user
	if _, err := f.tokens.Generate("alice"); !errors.Is(err, ErrTokenExists) {
		t.Errorf("second Generate() error = %v, want ErrTokenExists", err)
	}
}

func TestGenerateUnknownUser(t *testing.T) {
	f := newFixture(t)

	if _, err := f.tokens.Generate("nobody"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Generate() error = %v, want ErrAccountNotFound", err)
	}
}

func TestGenerateLegacyGuard(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	legacy := NewTokenService(f.db, 100, true)

	// The historical rule only issues a token when one already exists
	if _, err := legacy.Generate("alice"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("legacy Generate() without a token error = %v, want ErrTokenNotFound", err)
	}

	if _, err := f.tokens.Generate("alice"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := legacy.Generate("alice"); err != nil {
		t.Errorf("legacy Generate() with an existing token error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	token, err := f.tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !f.tokens.Validate(token.Key) {
		t.Error("Validate() = false for an issued key")
	}
	if f.tokens.Validate("deadbeef") {
		t.Error("Validate() = true for an unknown key")
	}

	// Tombstoned tokens still validate, the key stays known
	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !f.tokens.Validate(token.Key) {
		t.Error("Validate() = false for a tombstoned token")
	}
}

func TestUseDrainsToZero(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	if _, err := f.tokens.Generate("alice"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		if err := f.tokens.Use("alice"); err != nil {
			t.Fatalf("Use() #%d error = %v", i+1, err)
		}
	}

	left, err := f.tokens.Remaining("alice")
	if err != nil {
		t.Fatalf("Remaining() error = %v", err)
	}
	if left != 0 {
		t.Errorf("Remaining() = %d after 100 uses, want 0", left)
	}

	// The 101st call hits the floor instead of going negative
	if err := f.tokens.Use("alice"); !errors.Is(err, ErrTokenExhausted) {
		t.Errorf("Use() #101 error = %v, want ErrTokenExhausted", err)
	}

	left, _ = f.tokens.Remaining("alice")
	if left != 0 {
		t.Errorf("Remaining() = %d after exhaustion, want 0", left)
	}
}

func TestUseWithoutToken(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	if err := f.tokens.Use("alice"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Use() without a token error = %v, want ErrTokenNotFound", err)
	}
}

func TestUseByKey(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	issued, err := f.tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	token, err := f.tokens.UseByKey(issued.Key)
	if err != nil {
		t.Fatalf("UseByKey() error = %v", err)
	}
	if token.Uses != 99 {
		t.Errorf("token uses = %d after one use, want 99", token.Uses)
	}
	if token.OwnerUserID == 0 {
		t.Error("UseByKey() returned a token without an owner")
	}

	if _, err := f.tokens.UseByKey("deadbeef"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("UseByKey() with unknown key error = %v, want ErrTokenNotFound", err)
	}
}

func TestUseByKeyExhausted(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	tokens := NewTokenService(f.db, 1, false)

	issued, err := tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := tokens.UseByKey(issued.Key); err != nil {
		t.Fatalf("UseByKey() error = %v", err)
	}
	if _, err := tokens.UseByKey(issued.Key); !errors.Is(err, ErrTokenExhausted) {
		t.Errorf("UseByKey() on drained token error = %v, want ErrTokenExhausted", err)
	}
}

func TestTokenRevokedWithAccount(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "alice")

	if _, err := f.tokens.Generate("alice"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The token was tombstoned together with the account
	if _, err := f.tokens.Remaining("alice"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Remaining() after account delete error = %v, want ErrTokenNotFound", err)
	}
}
