package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileList lists the caller's files, or a room's files when ?room= is
// given. Tombstoned files show up with was_deleted set to Yes.
func (a *API) FileList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)
	username := c.MustGet("username").(string)

	var (
		views []service.FileView
		err   error
	)

	if room := c.Query("room"); room != "" {
		roomID, rErr := a.Rooms.RoomID(room)
		if rErr != nil {
			a.listError(c, requestID, rErr)
			return
		}

		if !a.Rooms.IsMember(roomID, userID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "You are not a member of this room",
				"requestID": requestID,
			})
			return
		}

		views, err = a.Files.AllFiles("", room)
	} else {
		views, err = a.Files.AllFiles(username, "")
	}
	if err != nil {
		a.listError(c, requestID, err)
		return
	}

	total, err := a.Files.TotalSize(username)
	if err != nil {
		a.listError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files":     views,
		"totalSize": total,
	})
}

func (a *API) listError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Room not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list files", zap.Error(err), zap.String("requestID", requestID))
	}
}
