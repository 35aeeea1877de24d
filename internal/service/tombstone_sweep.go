package service

import (
	"time"

	"fileroom/backend/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TombstoneSweep periodically hard-deletes token tombstones older than the
// retention window. Only tokens are purged: users and files stay restorable
// indefinitely.
func TombstoneSweep(t, retention time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Tombstone sweep attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			cutoff := time.Now().Add(-retention)

			res := db.
				Unscoped().
				Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
				Delete(&model.Token{})
			if res.Error != nil {
				zap.L().Error("Failed to purge token tombstones", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Purged token tombstones", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
