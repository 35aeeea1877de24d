// Package model defines database models
package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TypeBasic = "Basic"
	TypeAdmin = "Admin"
)

// User is an account row. Usernames are unique among non-tombstoned rows
// only, so the index here is plain and the uniqueness check lives in the
// account service where it can run inside the creating transaction.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type         string `gorm:"default:Basic" json:"type"`
	Username     string `gorm:"index;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Email        string `gorm:"not null" json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Files  []File  `gorm:"foreignKey:OwnerUserID" json:"-"`
	Tokens []Token `gorm:"foreignKey:OwnerUserID" json:"-"`
}
