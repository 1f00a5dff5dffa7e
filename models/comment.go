package models

import "time"

// Comment represents a reply to a post. Its existence depends on the
// referenced post; deleting the post cascades at the storage layer.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	PostID    uint       `gorm:"index;not null" json:"post_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Author    User       `gorm:"foreignKey:UserID" json:"-"`
}
