package api

import (
	"net/http"

	"fileroom/backend/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileRestore clears the tombstone on one of the caller's deleted files.
func (a *API) FileRestore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := parseID(c, requestID)
	if !ok {
		return
	}

	// The live-row scope can't see the tombstone, check ownership unscoped
	var owned bool
	err := a.DB.
		Unscoped().
		Model(model.File{}).
		Select("count(*) > 0").
		Where("id = ? AND owner_user_id = ?", fileID, userID).
		Find(&owned).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check file ownership", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !owned {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	if err := a.Files.Restore(fileID); err != nil {
		a.fileError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}
