package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes the error JSON body and records err on the gin context,
// where the observability middleware picks it up for the request log.
// c.Error returns *gin.Error rather than error, hence the blank assign.
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails is respondError with a structured details payload,
// used for validation failures.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
	c.JSON(status, gin.H{"error": message, "details": details})
}
