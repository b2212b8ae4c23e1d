package services

import (
	"context"

	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// ActivityRecorder derives notification rows from completed writes (new like,
// new comment, new post). It is always called after the primary write has
// committed and never fails the caller: every error here is logged and
// swallowed. A user's post, comment or like must not be rolled back because
// bookkeeping hiccuped.
type ActivityRecorder struct {
	posts         repositories.PostRepository
	subscriptions repositories.SubscriptionRepository
	notifications repositories.NotificationRepository
	pusher        *hub.Hub
	log           *logrus.Logger
}

// NewActivityRecorder creates a new ActivityRecorder
func NewActivityRecorder(
	postRepo repositories.PostRepository,
	subRepo repositories.SubscriptionRepository,
	notifRepo repositories.NotificationRepository,
	pusher *hub.Hub,
	log *logrus.Logger,
) *ActivityRecorder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ActivityRecorder{
		posts:         postRepo,
		subscriptions: subRepo,
		notifications: notifRepo,
		pusher:        pusher,
		log:           log,
	}
}

// RecordLike notifies the post owner that someone liked their post. Liking
// your own post records nothing.
func (r *ActivityRecorder) RecordLike(ctx context.Context, postID string, actorID uint) {
	r.recordPostActivity(ctx, postID, actorID, models.NotificationTypeLike)
}

// RecordComment notifies the post owner that someone commented. Commenting on
// your own post records nothing.
func (r *ActivityRecorder) RecordComment(ctx context.Context, postID string, actorID uint) {
	r.recordPostActivity(ctx, postID, actorID, models.NotificationTypeComment)
}

func (r *ActivityRecorder) recordPostActivity(ctx context.Context, postID string, actorID uint, notifType string) {
	post, err := r.posts.GetPostByID(ctx, postID)
	if err != nil {
		// Post gone (or never existed): nothing to notify about.
		r.log.WithFields(logrus.Fields{"post_id": postID, "type": notifType}).
			WithError(err).Debug("skipping notification for unresolvable post")
		return
	}

	if post.UserID == actorID {
		return
	}

	r.createAndPush(&models.Notification{
		RecipientID: post.UserID,
		PostID:      postID,
		ActorID:     actorID,
		Type:        notifType,
	})
}

// RecordNewPost fans a new post out to every subscriber of its blog. The
// post's author never receives a notification for their own post, even when
// they subscribe to the blog.
func (r *ActivityRecorder) RecordNewPost(ctx context.Context, blogID uint, postID string, authorID uint) {
	subscriberIDs, err := r.subscriptions.GetSubscriberIDs(blogID)
	if err != nil {
		r.log.WithFields(logrus.Fields{"blog_id": blogID, "post_id": postID}).
			WithError(err).Warn("failed to resolve subscribers for fan-out")
		return
	}

	for _, subscriberID := range subscriberIDs {
		if subscriberID == authorID {
			continue
		}
		r.createAndPush(&models.Notification{
			RecipientID: subscriberID,
			PostID:      postID,
			ActorID:     authorID,
			Type:        models.NotificationTypeNewPost,
		})
	}
}

func (r *ActivityRecorder) createAndPush(n *models.Notification) {
	if err := r.notifications.CreateIfAbsent(n); err != nil {
		r.log.WithFields(logrus.Fields{
			"recipient_id": n.RecipientID,
			"post_id":      n.PostID,
			"type":         n.Type,
		}).WithError(err).Warn("failed to persist notification")
		return
	}

	if r.pusher != nil {
		r.pusher.NotifyUser(n.RecipientID, hub.EventNotification, map[string]interface{}{
			"post_id": n.PostID,
			"type":    n.Type,
		})
	}
}
