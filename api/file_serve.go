package api

import (
	"errors"
	"net/http"
	"strconv"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileServe streams a file's bytes back. Own files are checked against the
// caller, room files against the caller's memberships.
func (a *API) FileServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := parseID(c, requestID)
	if !ok {
		return
	}

	file, err := a.Files.Get(userID, fileID)
	if errors.Is(err, service.ErrFileNotFound) {
		// Not one of the caller's own, maybe a room file they can see
		file, err = a.Files.GetRoomFile(userID, fileID)
	}
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.Mimetype, file.Data)
}

// parseID reads the :id route param as an unsigned integer.
func parseID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid id",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
