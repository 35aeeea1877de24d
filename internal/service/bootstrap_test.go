package service

import (
	"testing"

	"fileroom/backend/internal/model"

	"github.com/spf13/viper"
)

func TestBootstrap(t *testing.T) {
	f := newFixture(t)

	viper.Set("bootstrap.admin_username", "root")
	viper.Set("bootstrap.admin_password", "rootpassword1")
	viper.Set("bootstrap.admin_email", "root@example.com")
	t.Cleanup(func() {
		viper.Set("bootstrap.admin_username", "")
		viper.Set("bootstrap.admin_password", "")
		viper.Set("bootstrap.admin_email", "")
	})

	if err := Bootstrap(f.accounts); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	admin, err := f.accounts.Get("root")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if admin.Type != model.TypeAdmin {
		t.Errorf("seeded account type = %q, want Admin", admin.Type)
	}

	// Seeding twice is a no-op
	if err := Bootstrap(f.accounts); err != nil {
		t.Errorf("second Bootstrap() error = %v", err)
	}

	n, err := f.accounts.Count(model.TypeAdmin)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count(Admin) = %d after double seed, want 1", n)
	}
}

func TestBootstrapMissingConfig(t *testing.T) {
	f := newFixture(t)

	viper.Set("bootstrap.admin_username", "")
	viper.Set("bootstrap.admin_password", "")

	if err := Bootstrap(f.accounts); err == nil {
		t.Error("Bootstrap() without config should fail")
	}
}
