package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type roomJoinBody struct {
	// 1 joins, 0 cancels, -1 resets to undecided
	Switch int `json:"switch"`
}

// RoomJoin flips the caller's membership switch in a room.
func (a *API) RoomJoin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	roomID, ok := a.roomIDParam(c, requestID)
	if !ok {
		return
	}

	var data roomJoinBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Rooms.Join(roomID, username, data.Switch); err != nil {
		if errors.Is(err, service.ErrSwitchInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Switch must be -1, 0 or 1",
				"requestID": requestID,
			})
			return
		}

		a.roomError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

// roomIDParam resolves the :id route param, a room name, to the room's id.
func (a *API) roomIDParam(c *gin.Context, requestID string) (uint, bool) {
	roomID, err := a.Rooms.RoomID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Room not found",
				"requestID": requestID,
			})
			return 0, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve room", zap.Error(err), zap.String("requestID", requestID))
		return 0, false
	}

	return roomID, true
}

func (a *API) roomError(c *gin.Context, requestID string, err error) {
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
	case errors.Is(err, service.ErrMemberExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "User is already a member of this room",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User is not a member of this room",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Room operation failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
