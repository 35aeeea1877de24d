package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenIssue creates the API token for the authenticated account. Each
// account holds at most one token at a time.
func (a *API) TokenIssue(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	token, err := a.Tokens.Generate(username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "An API token already exists for this account",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrTokenNotFound):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Token can't be issued for this account",
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

			zap.L().Error("Failed to issue token", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	// The key is shown once here, afterwards only the use count is exposed
	c.JSON(http.StatusOK, gin.H{
		"key":  token.Key,
		"uses": token.Uses,
	})
}

// TokenRemaining reports how many uses are left on the account's token.
func (a *API) TokenRemaining(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	uses, err := a.Tokens.Remaining(username)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No API token exists for this account",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check token uses", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uses": uses,
	})
}
