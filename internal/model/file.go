package model

import (
	"time"

	"gorm.io/gorm"
)

// File holds the payload itself as a blob next to its metadata. Exactly one
// of OwnerUserID/OwnerRoomID is set, enforced by the check constraint and
// double-checked by the services that create rows.
type File struct {
	ID           uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	Encoding     string `json:"encoding"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	OriginalName string `json:"originalname"`
	// Display alias, defaults to OriginalName and is the only field renames touch
	Name string `json:"name"`
	Data []byte `gorm:"type:blob" json:"-"`

	OwnerUserID *uint `gorm:"index;check:(owner_user_id IS NULL) <> (owner_room_id IS NULL)" json:"-"`
	OwnerRoomID *uint `gorm:"index" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
