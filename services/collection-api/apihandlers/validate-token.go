package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hikuken/submission-project/pkg/utils"
)

// ValidateTokenParam rejects requests whose capability token path parameter
// contains characters the token minter never produces. A malformed token can
// never match a collection, so the response is the same 404.
func ValidateTokenParam(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsURLSafe(c.Param(paramName)) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		c.Next()
	}
}
