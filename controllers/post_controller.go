package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/middleware"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/utils"
)

// PostController manages post CRUD and like toggling.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// ListPosts returns posts as PostViews for the acting user, newest first.
// The identity is only used to compute liked_by_user.
func (p *PostController) ListPosts(ctx *gin.Context) {
	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	opts := models.ListPostsOptions{
		Limit:  parseQueryInt(ctx.Query("limit"), 10, 100),
		Skip:   parseQueryInt(ctx.Query("skip"), 0, 0),
		Search: strings.TrimSpace(ctx.Query("search")),
	}

	views, err := models.AggregatePosts(p.db, acting.ID, opts)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to list posts")
		return
	}

	ctx.JSON(http.StatusOK, views)
}

// GetPost returns a single post as a PostView.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := models.AggregatePost(p.db, id, acting.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, fmt.Sprintf("post with id %d not found", id))
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// CreatePost creates a post owned by the acting user and returns it as a
// PostView. A new post starts with zero counts and liked_by_user false.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"image_url"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post := models.Post{
		Content:  content,
		ImageURL: strings.TrimSpace(req.ImageURL),
		UserID:   acting.ID,
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to create post")
		return
	}

	view, err := models.AggregatePost(p.db, post.ID, acting.ID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	ctx.JSON(http.StatusCreated, view)
}

// UpdatePost lets the owner edit content or image. The load, ownership check
// and write share one transaction.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Content  *string `json:"content"`
		ImageURL *string `json:"image_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	txErr := p.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := auth.AuthorizeMutation(post.UserID, acting.ID); err != nil {
			return err
		}

		if req.Content != nil {
			content := utils.Sanitize(strings.TrimSpace(*req.Content))
			if content == "" {
				return errValidation("content cannot be empty")
			}
			post.Content = content
		}
		if req.ImageURL != nil {
			post.ImageURL = strings.TrimSpace(*req.ImageURL)
		}
		now := time.Now()
		post.UpdatedAt = &now

		return tx.Save(&post).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("post with id %d not found", id))
		return
	}

	view, err := models.AggregatePost(p.db, id, acting.ID)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// DeletePost lets the owner delete a post. Dependent comments and likes go
// with it through the storage-level cascade.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	txErr := p.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := auth.AuthorizeMutation(post.UserID, acting.ID); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("post with id %d not found", id))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ToggleLike flips the acting user's like on a post: present removes it,
// absent creates it. The composite primary key turns a racing duplicate
// insert into a no-op, and a racing double delete already is one, so neither
// surfaces as an error.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var message string
	txErr := p.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND post_id = ?", acting.ID, post.ID).First(&existing).Error
		switch {
		case err == nil:
			message = "Post unliked"
			return tx.Where("user_id = ? AND post_id = ?", acting.ID, post.ID).
				Delete(&models.Like{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			message = "Post liked"
			like := models.Like{UserID: acting.ID, PostID: post.ID}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
		default:
			return err
		}
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("post with id %d not found", id))
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": message})
}

// parseQueryInt parses a non-negative query value, falling back to def and
// clamping to limit when limit is positive.
func parseQueryInt(raw string, def, limit int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return def
	}
	if limit > 0 && v > limit {
		return limit
	}
	return v
}
