package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/jwt"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"go.uber.org/zap"
)

// ServiceAuthHeader carries the shared secret on service-to-service calls
const ServiceAuthHeader = "X-Service-Auth-Token"

// ServiceAuthMiddleware validates the shared-secret header used by the
// ingest pipeline when it calls back into this API. An empty configured
// token disables the surface entirely.
func ServiceAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "service API not configured"})
			return
		}

		token := c.GetHeader(ServiceAuthHeader)
		if token == "" {
			logger.Warn("Service request missing authentication token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing service authentication token"})
			return
		}

		if !jwt.TimingSafeCompare(token, validToken) {
			logger.Warn("Service request with invalid authentication token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid service authentication token"})
			return
		}

		c.Next()
	}
}
