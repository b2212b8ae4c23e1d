package models

import "time"

// Subscription is a follow relationship from a user to a blog.
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_blog"`
	BlogID    uint      `json:"blog_id" gorm:"index;uniqueIndex:idx_user_blog"`
	CreatedAt time.Time `json:"created_at"`
}
