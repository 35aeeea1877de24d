package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat answers liveness probes. Skipped by the access logger.
func (a *API) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
