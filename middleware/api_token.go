package middleware

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/model"
	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAPITokenMiddleware guards routes behind the X-API-Key header. Every
// accepted request burns one use of the token, so the credential itself is
// the rate limit. Exhausted tokens get 429 until a new one is issued.
func NewAPITokenMiddleware(d *gorm.DB, tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "No API key provided",
				"requestID": requestID,
			})
			return
		}

		token, err := tokens.UseByKey(key)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Unknown API key",
					"requestID": requestID,
				})
			case errors.Is(err, service.ErrTokenExhausted):
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":     "API key has no uses left",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to consume API token", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		var user model.User
		if err := d.Where("id = ?", token.OwnerUserID).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Account no longer exists",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Set("userType", user.Type)
		c.Next()
	}
}
