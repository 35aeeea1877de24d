package service

import (
	"fileroom/backend/internal/model"

	"gorm.io/gorm"
)

// AuditService appends to the log table. Entries are never updated or
// deleted here, the table only grows.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(userID uint, message string) error {
	return s.record(s.db, userID, nil, message)
}

func (s *AuditService) RecordFile(userID uint, fileID uint, message string) error {
	return s.record(s.db, userID, &fileID, message)
}

// record writes through tx so that mutating operations can make their
// change and its audit entry atomic.
func (s *AuditService) record(tx *gorm.DB, userID uint, fileID *uint, message string) error {
	return tx.Create(&model.LogEntry{
		Message: message,
		UserID:  userID,
		FileID:  fileID,
	}).Error
}

// ForUser returns the newest entries for a user, most recent first.
func (s *AuditService) ForUser(userID uint, limit int) ([]model.LogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var entries []model.LogEntry
	err := s.db.
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
