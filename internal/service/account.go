package service

import (
	"errors"
	"fmt"

	"fileroom/backend/internal/model"
	"fileroom/backend/pkg/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService owns the user table and its soft-delete rules. A username
// is unique among non-tombstoned rows only: deleting an account frees the
// name for a fresh signup, and restoring fails while a new holder is active.
type AccountService struct {
	db    *gorm.DB
	argon *security.ArgonHash
	audit *AuditService
}

func NewAccountService(db *gorm.DB, argon *security.ArgonHash, audit *AuditService) *AccountService {
	return &AccountService{db: db, argon: argon, audit: audit}
}

// Exists reports whether a live (non-tombstoned) account holds the username.
func (s *AccountService) Exists(username string) bool {
	var found bool
	err := s.db.
		Model(model.User{}).
		Select("count(*) > 0").
		Where("username = ?", username).
		Find(&found).
		Error
	if err != nil {
		zap.L().Error("Failed to check if account exists", zap.Error(err))
		return false
	}

	return found
}

// IsDeleted is true only when a tombstoned row holds the username. It is
// false both for live accounts and for names that never existed, so a false
// result is not proof of existence.
func (s *AccountService) IsDeleted(username string) bool {
	var found bool
	err := s.db.
		Unscoped().
		Model(model.User{}).
		Select("count(*) > 0").
		Where("username = ? AND deleted_at IS NOT NULL", username).
		Find(&found).
		Error
	if err != nil {
		zap.L().Error("Failed to check if account is deleted", zap.Error(err))
		return false
	}

	return found
}

// Create registers a new account. It fails with ErrAccountExists when a
// live account already holds the username; a tombstoned holder does not
// block the create. The row and its audit entry commit together.
func (s *AccountService) Create(username, password, email, accountType, firstName, lastName string) (*model.User, error) {
	if accountType == "" {
		accountType = model.TypeBasic
	}

	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		Type:         accountType,
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var found bool
		if err := tx.
			Model(model.User{}).
			Select("count(*) > 0").
			Where("username = ?", username).
			Find(&found).
			Error; err != nil {
			return err
		}

		if found {
			return ErrAccountExists
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		return s.audit.record(tx, user.ID, nil, "Account was created")
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetID resolves a live username to its row id.
func (s *AccountService) GetID(username string) (uint, error) {
	var user model.User
	err := s.db.
		Select("id").
		Where("username = ?", username).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}

	return user.ID, nil
}

// Get returns the live account for a username.
func (s *AccountService) Get(username string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Delete tombstones an account and its tokens. Deleting an account that is
// already deleted (or never existed) fails with ErrAccountNotFound.
func (s *AccountService) Delete(username string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		// Revoke credentials together with the account
		if err := tx.Where("owner_user_id = ?", user.ID).Delete(&model.Token{}).Error; err != nil {
			return err
		}

		return s.audit.record(tx, user.ID, nil, "Account was deleted")
	})
}

// Restore clears the tombstone. It fails with ErrAccountNotDeleted when the
// account is live or unknown, and with ErrAccountExists when the username
// has been taken by a newer live account in the meantime.
func (s *AccountService) Restore(username string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := tx.
			Unscoped().
			Where("username = ? AND deleted_at IS NOT NULL", username).
			Order("id desc").
			First(&user).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotDeleted
			}
			return err
		}

		var taken bool
		if err := tx.
			Model(model.User{}).
			Select("count(*) > 0").
			Where("username = ?", username).
			Find(&taken).
			Error; err != nil {
			return err
		}

		if taken {
			return ErrAccountExists
		}

		if err := tx.Unscoped().Model(&user).Update("deleted_at", nil).Error; err != nil {
			return err
		}

		return s.audit.record(tx, user.ID, nil, "Account was restored")
	})
}

func (s *AccountService) ChangeFirstName(username, firstName string) error {
	return s.changeField(username, "first_name", firstName, "First name was changed")
}

func (s *AccountService) ChangeLastName(username, lastName string) error {
	return s.changeField(username, "last_name", lastName, "Last name was changed")
}

// ChangeUsername renames a live account. The new name must be free among
// live rows. The audit entry lands after the rename, so it is tied to the
// account under its new name.
func (s *AccountService) ChangeUsername(username, newUsername string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		var taken bool
		if err := tx.
			Model(model.User{}).
			Select("count(*) > 0").
			Where("username = ?", newUsername).
			Find(&taken).
			Error; err != nil {
			return err
		}

		if taken {
			return ErrAccountExists
		}

		if err := tx.Model(&user).Update("username", newUsername).Error; err != nil {
			return err
		}

		return s.audit.record(tx, user.ID, nil, "Username was changed")
	})
}

func (s *AccountService) ChangePassword(username, password string) error {
	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	return s.changeField(username, "password_hash", hash, "Password was changed")
}

// changeField updates one column of a live account and writes the audit
// entry in the same transaction. Tombstoned accounts are not found here,
// which is what aborts mutations on deleted accounts.
func (s *AccountService) changeField(username, column string, value any, message string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if err := tx.Model(&user).Update(column, value).Error; err != nil {
			return err
		}

		return s.audit.record(tx, user.ID, nil, message)
	})
}

// Count returns the number of live accounts of the given type. Tombstoned
// rows are not counted.
func (s *AccountService) Count(accountType string) (int64, error) {
	if accountType == "" {
		accountType = model.TypeBasic
	}

	var n int64
	err := s.db.
		Model(model.User{}).
		Where("type = ?", accountType).
		Count(&n).
		Error
	if err != nil {
		return 0, err
	}

	return n, nil
}
