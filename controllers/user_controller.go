package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/middleware"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/utils"
)

// UserController manages registration and user profiles.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Register creates a new account. Email and username are globally unique;
// a duplicate of either rejects the request without creating a row.
func (u *UserController) Register(ctx *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=6"`
		Username     string `json:"username" binding:"required,min=2,max=64"`
		Bio          string `json:"bio"`
		ProfileImage string `json:"profile_image"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	var existing models.User
	if err := u.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.JSONError(ctx, http.StatusBadRequest, "email already registered")
		return
	}
	if err := u.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.JSONError(ctx, http.StatusBadRequest, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Email:        email,
		Username:     username,
		Password:     hash,
		Bio:          utils.Sanitize(req.Bio),
		ProfileImage: strings.TrimSpace(req.ProfileImage),
		IsActive:     true,
	}

	if err := u.db.Create(&user).Error; err != nil {
		// The unique indexes back the pre-checks up under concurrent signups.
		utils.JSONError(ctx, http.StatusBadRequest, "email or username already taken")
		return
	}

	ctx.JSON(http.StatusCreated, models.NewUserOut(user))
}

// GetUser returns a user profile with its post count (public).
func (u *UserController) GetUser(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, fmt.Sprintf("user with id %d not found", id))
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	var postCount int64
	if err := u.db.Model(&models.Post{}).Where("user_id = ?", id).Count(&postCount).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to count posts")
		return
	}

	ctx.JSON(http.StatusOK, models.UserDetail{
		UserOut:   models.NewUserOut(user),
		PostCount: postCount,
	})
}

// ListUsers returns the public projection of every user.
func (u *UserController) ListUsers(ctx *gin.Context) {
	var users []models.User
	if err := u.db.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to list users")
		return
	}

	views := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		views = append(views, models.NewPublicUser(user))
	}
	ctx.JSON(http.StatusOK, views)
}

// UpdateUser lets a user edit their own profile. Email and password changes
// are not exposed here.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Username     *string `json:"username"`
		Bio          *string `json:"bio"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var user models.User
	txErr := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := auth.AuthorizeMutation(user.ID, acting.ID); err != nil {
			return err
		}

		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if username == "" {
				return errValidation("username cannot be empty")
			}
			if username != user.Username {
				var other models.User
				if err := tx.Where("username = ? AND id <> ?", username, user.ID).First(&other).Error; err == nil {
					return errValidation("username already taken")
				}
				user.Username = username
			}
		}
		if req.Bio != nil {
			user.Bio = utils.Sanitize(*req.Bio)
		}
		if req.ProfileImage != nil {
			user.ProfileImage = strings.TrimSpace(*req.ProfileImage)
		}

		return tx.Save(&user).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("user with id %d not found", id))
		return
	}

	ctx.JSON(http.StatusOK, models.NewUserOut(user))
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
