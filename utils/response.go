package utils

import "github.com/gin-gonic/gin"

// Error writes the uniform error body used across the API. No internal
// detail beyond the message ever reaches the client.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
