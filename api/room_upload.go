package api

import (
	"io"
	"net/http"

	"fileroom/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomFileUpload stores a multipart file under a room. Any member can
// upload, and room files keep their original name without suffixing.
func (a *API) RoomFileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	roomID, ok := a.roomIDParam(c, requestID)
	if !ok {
		return
	}

	if !a.memberGuard(c, requestID, roomID, userID) {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, mime, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			c.JSON(code, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	encoding := fh.Header.Get("Content-Transfer-Encoding")
	if encoding == "" {
		encoding = "binary"
	}

	file, err := a.Rooms.AttachFile(roomID, encoding, mime, fh.Size, fh.Filename, data)
	if err != nil {
		a.roomError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileID":   file.ID,
		"name":     file.Name,
		"mimetype": file.Mimetype,
	})
}
