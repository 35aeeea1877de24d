package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memberAddBody struct {
	Username string `json:"username"`
	Place    int    `json:"place"`
}

type memberChangeBody struct {
	Place int `json:"place"`
}

// RoomMemberAdd invites a user into a room. The new member starts with an
// unset switch until they react.
func (a *API) RoomMemberAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	roomID, ok := a.roomIDParam(c, requestID)
	if !ok {
		return
	}

	if !a.memberGuard(c, requestID, roomID, userID) {
		return
	}

	var data memberAddBody
	if err := c.ShouldBind(&data); err != nil || data.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username field can't be empty",
			"requestID": requestID,
		})

		if err != nil {
			zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	if err := a.Rooms.Append(roomID, data.Username, data.Place); err != nil {
		a.roomError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

// RoomMemberRemove drops a member from a room. The member row is
// tombstoned, so the same user can be invited again later.
func (a *API) RoomMemberRemove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	roomID, ok := a.roomIDParam(c, requestID)
	if !ok {
		return
	}

	if !a.memberGuard(c, requestID, roomID, userID) {
		return
	}

	if err := a.Rooms.Pop(roomID, c.Param("username")); err != nil {
		a.roomError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

// RoomMemberChange updates a member's place in a room.
func (a *API) RoomMemberChange(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	roomID, ok := a.roomIDParam(c, requestID)
	if !ok {
		return
	}

	if !a.memberGuard(c, requestID, roomID, userID) {
		return
	}

	var data memberChangeBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Rooms.ChangeMember(roomID, c.Param("username"), data.Place); err != nil {
		a.roomError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

// memberGuard rejects callers who aren't members of the room themselves.
func (a *API) memberGuard(c *gin.Context, requestID string, roomID, userID uint) bool {
	if a.Rooms.IsMember(roomID, userID) {
		return true
	}

	c.JSON(http.StatusForbidden, gin.H{
		"error":     "You are not a member of this room",
		"requestID": requestID,
	})

	return false
}
