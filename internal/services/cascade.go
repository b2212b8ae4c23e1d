package services

import (
	"context"

	"github.com/plumekit/plume-backend/internal/repositories"
)

// Cascader is the documented cascade contract of the persistence layer: a
// deleted post takes its comments, likes and notifications with it, and a
// deleted blog additionally takes its posts and subscriptions. Children are
// removed with bulk deletes, not per-row loops. Posts live in Mongo while
// their children live in Postgres, so the cascade cannot be a foreign key.
type Cascader struct {
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	notifications repositories.NotificationRepository
	subscriptions repositories.SubscriptionRepository
	blogs         repositories.BlogRepository
}

// NewCascader creates a new Cascader
func NewCascader(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	notifRepo repositories.NotificationRepository,
	subRepo repositories.SubscriptionRepository,
	blogRepo repositories.BlogRepository,
) *Cascader {
	return &Cascader{
		posts:         postRepo,
		comments:      commentRepo,
		likes:         likeRepo,
		notifications: notifRepo,
		subscriptions: subRepo,
		blogs:         blogRepo,
	}
}

// DeletePost removes a post and all rows referencing it.
func (c *Cascader) DeletePost(ctx context.Context, postID string) error {
	if err := c.posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	return c.deleteChildren([]string{postID})
}

// DeleteBlog removes a blog, its subscriptions, its posts and their children.
func (c *Cascader) DeleteBlog(ctx context.Context, blogID uint) error {
	if err := c.blogs.DeleteBlog(blogID); err != nil {
		return err
	}
	if err := c.subscriptions.DeleteSubscriptionsByBlogID(blogID); err != nil {
		return err
	}
	postIDs, err := c.posts.DeletePostsByBlogID(ctx, blogID)
	if err != nil {
		return err
	}
	return c.deleteChildren(postIDs)
}

func (c *Cascader) deleteChildren(postIDs []string) error {
	if err := c.comments.DeleteCommentsByPostIDs(postIDs); err != nil {
		return err
	}
	if err := c.likes.DeleteLikesByPostIDs(postIDs); err != nil {
		return err
	}
	return c.notifications.DeleteByPostIDs(postIDs)
}
