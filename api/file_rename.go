package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type renameBody struct {
	Name string `json:"name"`
}

// FileRename changes the display name of one of the caller's files.
func (a *API) FileRename(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := parseID(c, requestID)
	if !ok {
		return
	}

	var data renameBody
	if err := c.ShouldBind(&data); err != nil || data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Name field can't be empty",
			"requestID": requestID,
		})

		if err != nil {
			zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	if _, err := a.Files.Get(userID, fileID); err != nil {
		a.fileError(c, requestID, err)
		return
	}

	if err := a.Files.Rename(fileID, data.Name); err != nil {
		a.fileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": data.Name,
	})
}
