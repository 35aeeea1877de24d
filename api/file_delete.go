package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileDelete tombstones one of the caller's files. The row stays around
// and can be restored later.
func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := parseID(c, requestID)
	if !ok {
		return
	}

	// Ownership first, deletes never cross accounts
	if _, err := a.Files.Get(userID, fileID); err != nil {
		a.fileError(c, requestID, err)
		return
	}

	if err := a.Files.Delete(fileID); err != nil {
		a.fileError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

func (a *API) fileError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrFileNotDeleted):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "File is not deleted",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("File operation failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
