package model

import (
	"time"

	"gorm.io/gorm"
)

// Token is a rate-limited API credential. Uses counts down from the
// configured default and never goes below zero, the decrement runs as a
// single guarded UPDATE in the token service.
type Token struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string `gorm:"uniqueIndex;size:128;not null" json:"key"`
	Uses        int    `gorm:"default:100" json:"uses"`
	OwnerUserID uint   `gorm:"index;not null" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
