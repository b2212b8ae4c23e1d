package models

import "time"

// Blog is a user-owned collection of posts. PostingEnabled gates whether
// anyone besides the owner may publish to it.
type Blog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index"`
	Name           string    `json:"name" gorm:"size:100"`
	Description    string    `json:"description" gorm:"size:500"`
	PostingEnabled bool      `json:"posting_enabled" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateBlogRequest defines the request body for creating a blog
type CreateBlogRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	Description    string `json:"description,omitempty" validate:"omitempty,max=500"`
	PostingEnabled *bool  `json:"posting_enabled,omitempty"`
}

// UpdateBlogRequest defines the request body for updating a blog
type UpdateBlogRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description    string `json:"description,omitempty" validate:"omitempty,max=500"`
	PostingEnabled *bool  `json:"posting_enabled,omitempty"`
}
