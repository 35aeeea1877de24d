package service

import (
	"errors"
	"testing"

	"fileroom/backend/internal/model"
)

func TestCreateThenExists(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")

	if !f.accounts.Exists("alice") {
		t.Error("Exists() = false after Create()")
	}
	if f.accounts.IsDeleted("alice") {
		t.Error("IsDeleted() = true right after Create()")
	}
}

func TestCreateDuplicate(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")

	_, err := f.accounts.Create("alice", "otherpassword", "other@example.com", model.TypeBasic, "", "")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("second Create() error = %v, want ErrAccountExists", err)
	}
}

func TestIsDeletedUnknownAccount(t *testing.T) {
	f := newFixture(t)

	// "never existed" and "active" both report false
	if f.accounts.IsDeleted("nobody") {
		t.Error("IsDeleted() = true for an account that never existed")
	}
	if f.accounts.Exists("nobody") {
		t.Error("Exists() = true for an account that never existed")
	}
}

func TestDeleteRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")

	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !f.accounts.IsDeleted("alice") {
		t.Error("IsDeleted() = false after Delete()")
	}
	if f.accounts.Exists("alice") {
		t.Error("Exists() = true after Delete()")
	}

	if err := f.accounts.Delete("alice"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("second Delete() error = %v, want ErrAccountNotFound", err)
	}

	if err := f.accounts.Restore("alice"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if f.accounts.IsDeleted("alice") {
		t.Error("IsDeleted() = true after Restore()")
	}
	if !f.accounts.Exists("alice") {
		t.Error("Exists() = false after Restore()")
	}
}

func TestRestoreLiveAccount(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")

	if err := f.accounts.Restore("alice"); !errors.Is(err, ErrAccountNotDeleted) {
		t.Errorf("Restore() of a live account error = %v, want ErrAccountNotDeleted", err)
	}
}

func TestUsernameReuseAfterDelete(t *testing.T) {
	f := newFixture(t)

	old := f.mustCreate(t, "alice")

	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The tombstone frees the username for a fresh signup
	fresh := f.mustCreate(t, "alice")
	if fresh.ID == old.ID {
		t.Fatal("re-created account reused the tombstoned row")
	}

	// And the old row can't come back while the new holder is live
	if err := f.accounts.Restore("alice"); !errors.Is(err, ErrAccountExists) {
		t.Errorf("Restore() with a live holder error = %v, want ErrAccountExists", err)
	}
}

func TestChangeFieldsOnDeletedAccount(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")
	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"first name", func() error { return f.accounts.ChangeFirstName("alice", "New") }},
		{"last name", func() error { return f.accounts.ChangeLastName("alice", "New") }},
		{"username", func() error { return f.accounts.ChangeUsername("alice", "bob") }},
		{"password", func() error { return f.accounts.ChangePassword("alice", "newpassword1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrAccountNotFound) {
				t.Errorf("change on deleted account error = %v, want ErrAccountNotFound", err)
			}
		})
	}
}

func TestChangeUsername(t *testing.T) {
	f := newFixture(t)

	user := f.mustCreate(t, "alice")

	if err := f.accounts.ChangeUsername("alice", "alicia"); err != nil {
		t.Fatalf("ChangeUsername() error = %v", err)
	}

	if f.accounts.Exists("alice") {
		t.Error("old username still exists after rename")
	}
	if !f.accounts.Exists("alicia") {
		t.Error("new username does not exist after rename")
	}

	// The audit entry is keyed by the account's id, which survives the rename
	entries, err := f.audit.ForUser(user.ID, 10)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(entries) == 0 || entries[0].Message != "Username was changed" {
		t.Errorf("newest audit entry = %+v, want Username was changed", entries)
	}
}

func TestChangeUsernameTaken(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")
	f.mustCreate(t, "bob")

	if err := f.accounts.ChangeUsername("alice", "bob"); !errors.Is(err, ErrAccountExists) {
		t.Errorf("ChangeUsername() to a taken name error = %v, want ErrAccountExists", err)
	}
}

func TestCount(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "alice")
	f.mustCreate(t, "bob")

	if _, err := f.accounts.Create("root", "password123", "root@example.com", model.TypeAdmin, "", ""); err != nil {
		t.Fatalf("Create(admin) error = %v", err)
	}

	n, err := f.accounts.Count(model.TypeBasic)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count(Basic) = %d, want 2", n)
	}

	n, err = f.accounts.Count(model.TypeAdmin)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count(Admin) = %d, want 1", n)
	}

	// Tombstoned accounts drop out of the count
	if err := f.accounts.Delete("bob"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	n, err = f.accounts.Count(model.TypeBasic)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count(Basic) after delete = %d, want 1", n)
	}
}

func TestAccountAuditTrail(t *testing.T) {
	f := newFixture(t)

	user := f.mustCreate(t, "alice")

	if err := f.accounts.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := f.accounts.Restore("alice"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	entries, err := f.audit.ForUser(user.ID, 10)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}

	want := []string{"Account was restored", "Account was deleted", "Account was created"}
	if len(entries) != len(want) {
		t.Fatalf("got %d audit entries, want %d", len(entries), len(want))
	}
	for i, msg := range want {
		if entries[i].Message != msg {
			t.Errorf("entries[%d].Message = %q, want %q", i, entries[i].Message, msg)
		}
	}
}
