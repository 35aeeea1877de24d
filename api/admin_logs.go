package api

import (
	"errors"
	"net/http"
	"strconv"

	"fileroom/backend/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminLogList returns the audit trail of the user given by ?user=,
// newest first. ?limit= caps the page size.
func (a *API) AdminLogList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	username := c.Query("user")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing user query parameter",
			"requestID": requestID,
		})
		return
	}

	// Tombstoned accounts keep their trail, so resolve without the live scope
	var user model.User
	err := a.DB.
		Unscoped().
		Select("id").
		Where("username = ?", username).
		Order("id desc").
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := a.Audit.ForUser(user.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch logs", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": entries,
	})
}
