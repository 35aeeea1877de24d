package service

import (
	"errors"

	"fileroom/backend/internal/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Bootstrap seeds the initial admin account from config. It is optional and
// lives outside the core on purpose: nothing in the services depends on it
// and it only runs when --seed is passed on startup. Seeding an already
// existing admin is a no-op.
func Bootstrap(accounts *AccountService) error {
	username := viper.GetString("bootstrap.admin_username")
	password := viper.GetString("bootstrap.admin_password")
	email := viper.GetString("bootstrap.admin_email")

	if username == "" || password == "" {
		return errors.New("bootstrap.admin_username and bootstrap.admin_password must be set to seed")
	}

	_, err := accounts.Create(username, password, email, model.TypeAdmin, "", "")
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			zap.L().Info("Admin account already exists, skipping seed", zap.String("username", username))
			return nil
		}
		return err
	}

	zap.L().Info("Seeded admin account", zap.String("username", username))
	return nil
}
