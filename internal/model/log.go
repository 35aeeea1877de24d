package model

import "time"

// LogEntry is the append-only audit trail. Rows are never updated or
// deleted, so unlike the other tables it carries no DeletedAt column.
type LogEntry struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Message string `gorm:"not null" json:"message"`
	UserID  uint   `gorm:"index" json:"user_id"`
	FileID  *uint  `gorm:"index" json:"file_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
