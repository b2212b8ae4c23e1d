package models

import "gorm.io/gorm"

// Like represents a like on a post. The composite unique index is the
// enforcement point for "a user likes a post at most once"; the handler-level
// existence check only exists to return a friendly 409.
type Like struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index;uniqueIndex:idx_like_post_user"` // Mongo ObjectID hex
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_like_post_user"`
}

// CreateLikeRequest defines the request body for liking a post
type CreateLikeRequest struct {
	PostID string `json:"post_id" validate:"required"`
}
