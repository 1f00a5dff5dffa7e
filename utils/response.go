package utils

import "github.com/gin-gonic/gin"

// JSONError writes a uniform error body. NotFound messages embed the
// identifier of the missing entity.
func JSONError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// AbortWithError writes the error body and stops the handler chain. Used by
// middleware so later handlers never run with a rejected identity.
func AbortWithError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": message})
}
