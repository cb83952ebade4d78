package utils

import "github.com/gin-gonic/gin"

// JSONError writes the {"error": {"code", "message"}} envelope used by every handler.
func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// AbortError is JSONError for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
