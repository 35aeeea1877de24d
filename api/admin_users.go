package api

import (
	"errors"
	"net/http"

	"fileroom/backend/internal/model"
	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminUserList returns every live account plus per-type counts.
func (a *API) AdminUserList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var users []model.User
	err := a.DB.
		Select("id", "type", "username", "email", "first_name", "last_name", "created_at").
		Order("id").
		Find(&users).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	basic, err := a.Accounts.Count(model.TypeBasic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	admins, err := a.Accounts.Count(model.TypeAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count admins", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"basic":  basic,
		"admins": admins,
	})
}

// AdminUserDelete tombstones an account and revokes its API token.
func (a *API) AdminUserDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if err := a.Accounts.Delete(c.Param("username")); err != nil {
		a.adminUserError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

// AdminUserRestore brings a tombstoned account back, as long as nobody
// claimed the username since.
func (a *API) AdminUserRestore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if err := a.Accounts.Restore(c.Param("username")); err != nil {
		a.adminUserError(c, requestID, err)
		return
	}

	c.Status(http.StatusOK)
}

func (a *API) adminUserError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAccountNotDeleted):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "User is not deleted",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "The username has since been taken by another account",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Admin user operation failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
