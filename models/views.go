package models

import "time"

// PublicUser is the projection of a user embedded in other resources.
type PublicUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

// NewPublicUser builds the public projection of a user.
func NewPublicUser(u User) PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}

// UserOut is the full user representation minus credentials.
type UserOut struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// NewUserOut builds the private projection of a user.
func NewUserOut(u User) UserOut {
	return UserOut{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		IsActive:     u.IsActive,
	}
}

// UserDetail adds derived counters to the user representation.
type UserDetail struct {
	UserOut
	PostCount int64 `json:"post_count"`
}

// PostView combines a stored post with its derived like/comment counts and
// the acting user's like state. It is assembled field-by-field; none of the
// derived values are persisted.
type PostView struct {
	ID           uint       `json:"id"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url"`
	UserID       uint       `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	Author       PublicUser `json:"author"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	LikedByUser  bool       `json:"liked_by_user"`
}

// CommentView is a comment together with its author projection.
type CommentView struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	UserID    uint       `json:"user_id"`
	PostID    uint       `json:"post_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	Author    PublicUser `json:"author"`
}

// NewCommentView builds the response projection of a comment.
func NewCommentView(c Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		UserID:    c.UserID,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    NewPublicUser(c.Author),
	}
}
