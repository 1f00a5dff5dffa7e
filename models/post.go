package models

import "time"

// Post represents a piece of content created by a user. UpdatedAt stays nil
// until the first edit; the update handler maintains it.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	ImageURL  string     `gorm:"size:512" json:"image_url"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Author    User       `gorm:"foreignKey:UserID" json:"-"`
	Comments  []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes     []Like     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
