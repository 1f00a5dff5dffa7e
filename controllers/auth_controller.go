package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/utils"
)

// AuthController exchanges credentials for access tokens.
type AuthController struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, tokens *auth.TokenService) *AuthController {
	return &AuthController{db: db, tokens: tokens}
}

// Login verifies email/password credentials and issues a JWT. Unknown email
// and wrong password produce the same rejection.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusForbidden, "invalid credentials")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		utils.JSONError(ctx, http.StatusForbidden, "invalid credentials")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
