package models

import "time"

// Notification marks unseen activity on a post for a recipient. At most one
// row exists per (recipient, post); repeated activity on the same post does
// not multiply notifications. The composite unique index, not the
// application-level existence check, guarantees this under concurrent writes.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index;uniqueIndex:idx_recipient_post"`
	PostID      string    `json:"post_id" gorm:"uniqueIndex:idx_recipient_post"` // Mongo ObjectID hex
	ActorID     uint      `json:"actor_id"`
	Type        string    `json:"type" gorm:"size:20"` // like, comment, new_post
	CreatedAt   time.Time `json:"created_at"`
}

// Notification types recorded by the activity recorder.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeNewPost = "new_post"
)
