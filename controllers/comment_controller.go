package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/middleware"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/utils"
)

// CommentController manages comment CRUD under posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// ListForPost returns the comments of a post, newest first.
func (c *CommentController) ListForPost(ctx *gin.Context) {
	postID, err := parseID(ctx.Param("post_id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, http.StatusNotFound, fmt.Sprintf("post with id %d not found", postID))
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	var comments []models.Comment
	if err := c.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to list comments")
		return
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.NewCommentView(comment))
	}
	ctx.JSON(http.StatusOK, views)
}

// CreateComment creates a comment on an existing post. The existence check
// and the insert share one transaction so no orphaned comment is created.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
		PostID  uint   `json:"post_id" binding:"required"`
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

	comment := models.Comment{
		Content: content,
		UserID:  acting.ID,
		PostID:  req.PostID,
	}

	txErr := c.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, req.PostID).Error; err != nil {
			return err
		}
		return tx.Create(&comment).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("post with id %d not found", req.PostID))
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	ctx.JSON(http.StatusCreated, models.NewCommentView(comment))
}

// UpdateComment lets the owner edit a comment's content.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid comment id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Content *string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	var comment models.Comment
	txErr := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if err := auth.AuthorizeMutation(comment.UserID, acting.ID); err != nil {
			return err
		}

		if req.Content != nil {
			content := utils.Sanitize(strings.TrimSpace(*req.Content))
			if content == "" {
				return errValidation("content cannot be empty")
			}
			comment.Content = content
		}
		now := time.Now()
		comment.UpdatedAt = &now

		return tx.Save(&comment).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("comment with id %d not found", id))
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	ctx.JSON(http.StatusOK, models.NewCommentView(comment))
}

// DeleteComment lets the owner delete a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid comment id")
		return
	}

	acting, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	txErr := c.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if err := auth.AuthorizeMutation(comment.UserID, acting.ID); err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if txErr != nil {
		respondMutationError(ctx, txErr, fmt.Sprintf("comment with id %d not found", id))
		return
	}

	ctx.Status(http.StatusNoContent)
}
