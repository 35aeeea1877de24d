package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/service"
	"fileroom/backend/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateBody struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UserUpdate applies partial profile changes. Only the fields present in
// the body are touched. Each change is audited separately.
func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Username == nil && data.Password == nil && data.FirstName == nil && data.LastName == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No fields to update",
			"requestID": requestID,
		})
		return
	}

	if data.FirstName != nil {
		if err := a.Accounts.ChangeFirstName(username, *data.FirstName); err != nil {
			a.updateError(c, requestID, err)
			return
		}
	}

	if data.LastName != nil {
		if err := a.Accounts.ChangeLastName(username, *data.LastName); err != nil {
			a.updateError(c, requestID, err)
			return
		}
	}

	if data.Password != nil {
		if err := validators.PasswordValidator(*data.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		if err := a.Accounts.ChangePassword(username, *data.Password); err != nil {
			a.updateError(c, requestID, err)
			return
		}
	}

	// Username last, so earlier changes resolve against the old name
	if data.Username != nil {
		if err := validators.UsernameValidator(*data.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		if err := a.Accounts.ChangeUsername(username, *data.Username); err != nil {
			a.updateError(c, requestID, err)
			return
		}

		username = *data.Username
	}

	c.JSON(http.StatusOK, gin.H{
		"username": username,
	})
}

func (a *API) updateError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This username is already taken. Please pick a different one",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
	}
}
