package api

import (
	"io"
	"net/http"

	"fileroom/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileUpload stores a multipart file under the authenticated account. The
// optional "name" form field sets the display name, otherwise it follows
// the original name.
func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

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

	file, err := a.Files.Create(userID, encoding, mime, fh.Size, fh.Filename, data, c.PostForm("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileID":       file.ID,
		"originalName": file.OriginalName,
		"name":         file.Name,
		"mimetype":     file.Mimetype,
	})
}
