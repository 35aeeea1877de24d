package service

import (
	"errors"

	"fileroom/backend/internal/model"
	"fileroom/backend/pkg/util"

	"gorm.io/gorm"
)

// keyBytes is hex-encoded, so keys end up 128 characters long
const keyBytes = 64

// TokenService manages the per-user API credential with its bounded use
// counter. At most one live token exists per user. Decrements run as a
// single guarded UPDATE so concurrent Use calls can never push the counter
// below zero or lose updates.
type TokenService struct {
	db          *gorm.DB
	defaultUses int

	// legacyGuard reproduces the historical creation rule, which issued a
	// token only when one already existed. Kept behind a flag for parity
	// testing against old deployments, never enable it for new ones.
	legacyGuard bool
}

func NewTokenService(db *gorm.DB, defaultUses int, legacyGuard bool) *TokenService {
	if defaultUses <= 0 {
		defaultUses = 100
	}

	return &TokenService{db: db, defaultUses: defaultUses, legacyGuard: legacyGuard}
}

// Generate issues a token for the user. When the user already has a live
// token the call is a no-op and fails with ErrTokenExists.
func (s *TokenService) Generate(username string) (*model.Token, error) {
	var token *model.Token

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		var existing int64
		if err := tx.
			Model(model.Token{}).
			Where("owner_user_id = ?", user.ID).
			Count(&existing).
			Error; err != nil {
			return err
		}

		if s.legacyGuard {
			if existing == 0 {
				return ErrTokenNotFound
			}
		} else if existing > 0 {
			return ErrTokenExists
		}

		key, err := util.GenerateToken(keyBytes)
		if err != nil {
			return err
		}

		token = &model.Token{
			Key:         key,
			Uses:        s.defaultUses,
			OwnerUserID: user.ID,
		}

		return tx.Create(token).Error
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// Validate reports whether the key belongs to any known token, tombstoned
// ones included. It says nothing about remaining uses.
func (s *TokenService) Validate(key string) bool {
	var found bool
	err := s.db.
		Unscoped().
		Model(model.Token{}).
		Select("count(*) > 0").
		Where("key = ?", key).
		Find(&found).
		Error
	if err != nil {
		return false
	}

	return found
}

// Use consumes one use of the token owned by the user. The decrement and
// its floor check are one UPDATE with a uses > 0 predicate, so the counter
// is never driven negative even under concurrent calls.
func (s *TokenService) Use(username string) error {
	owner := s.db.Model(model.User{}).Select("id").Where("username = ?", username)

	res := s.db.
		Model(model.Token{}).
		Where("uses > 0 AND owner_user_id = (?)", owner).
		UpdateColumn("uses", gorm.Expr("uses - 1"))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.
			Model(model.Token{}).
			Where("owner_user_id = (?)", owner).
			Count(&n).
			Error; err != nil {
			return err
		}

		if n == 0 {
			return ErrTokenNotFound
		}

		return ErrTokenExhausted
	}

	return nil
}

// UseByKey consumes one use of the token with the given key and returns the
// updated row. Used by the API-token middleware.
func (s *TokenService) UseByKey(key string) (*model.Token, error) {
	var token model.Token

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(model.Token{}).
			Where("key = ? AND uses > 0", key).
			UpdateColumn("uses", gorm.Expr("uses - 1"))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var n int64
			if err := tx.
				Model(model.Token{}).
				Where("key = ?", key).
				Count(&n).
				Error; err != nil {
				return err
			}

			if n == 0 {
				return ErrTokenNotFound
			}

			return ErrTokenExhausted
		}

		return tx.Where("key = ?", key).First(&token).Error
	})
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// Remaining returns the use counter of the user's live token.
func (s *TokenService) Remaining(username string) (int, error) {
	var token model.Token
	err := s.db.
		Where("owner_user_id = (?)", s.db.Model(model.User{}).Select("id").Where("username = ?", username)).
		First(&token).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}

	return token.Uses, nil
}
