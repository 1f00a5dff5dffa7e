package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/utils"
)

// ContextUserKey is the key under which the resolved user is stored in the
// Gin context.
const ContextUserKey = "current_user"

// AuthRequired resolves the acting user from the request's bearer token:
// extract, verify, then load the user row. Every failure is the same
// unauthenticated rejection; a decoded id with no matching active user is
// rejected too, never synthesized.
func AuthRequired(tokens *auth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(ctx, http.StatusUnauthorized, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.AbortWithError(ctx, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.AbortWithError(ctx, http.StatusUnauthorized, "empty bearer token")
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			utils.AbortWithError(ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		var user models.User
		if err := db.Where("is_active = ?", true).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.AbortWithError(ctx, http.StatusUnauthorized, "user no longer exists")
				return
			}
			utils.AbortWithError(ctx, http.StatusInternalServerError, "failed to resolve user")
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
