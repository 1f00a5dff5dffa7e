package models

import "time"

// Like is a relation, not an independent entity: the composite primary key
// makes at most one row per (user, post) pair, so toggling is the only
// mutation path and a racing duplicate insert collapses into a no-op.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
