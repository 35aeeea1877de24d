package api

import (
	"errors"
	"net/http"
	"slices"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type roomCreateBody struct {
	Usernames []string `json:"usernames"`
}

// RoomCreate opens a room over the caller plus the listed users. The
// caller is always the first member and starts joined.
func (a *API) RoomCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	var data roomCreateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	usernames := data.Usernames
	if !slices.Contains(usernames, username) {
		usernames = append([]string{username}, usernames...)
	}

	room, err := a.Rooms.Create(usernames...)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomTooSmall):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "A room needs at least two members",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrRoomExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "A room over these users already exists",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "One of the listed users doesn't exist",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to create room", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": room.Name,
	})
}
