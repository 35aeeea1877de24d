package model

import (
	"time"

	"gorm.io/gorm"
)

// Member.Switch values. Unset means the user was added to the room but has
// neither joined nor declined yet.
const (
	SwitchUnset    = -1
	SwitchDeclined = 0
	SwitchJoined   = 1
)

type Room struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Members []Member `gorm:"foreignKey:RoomID" json:"-"`
	Files   []File   `gorm:"foreignKey:OwnerRoomID" json:"-"`
}

// Member links a user to a room. One live row per (room, user) pair, kept
// by the room service rather than a unique index because tombstoned rows
// would otherwise block re-adding a popped member.
type Member struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID uint `gorm:"index;not null" json:"room_id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
	Place  int  `gorm:"default:1" json:"place"`
	Switch int  `gorm:"default:-1" json:"switch"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
