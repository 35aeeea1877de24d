package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate confirms the auth cookie is still good and echoes the
// identity it resolves to. The JWT middleware does all the work.
func (a *API) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userID":   c.MustGet("userID").(uint),
		"username": c.MustGet("username").(string),
		"type":     c.MustGet("userType").(string),
	})
}
