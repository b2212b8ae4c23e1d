package services

import (
	"context"

	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// FeedEntry is a notified post annotated with the viewer's own like status.
type FeedEntry struct {
	Post  models.Post `json:"post"`
	Liked bool        `json:"liked"`
	Type  string      `json:"type"`
}

// NotificationService answers "what's new" and "how many" for a user and
// handles dismissal. Reads here are authoritative; the live channel only
// hints that calling them again might be worthwhile.
type NotificationService struct {
	notifications repositories.NotificationRepository
	posts         repositories.PostRepository
	likes         repositories.LikeRepository
	pusher        *hub.Hub
	log           *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	pusher *hub.Hub,
	log *logrus.Logger,
) *NotificationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NotificationService{
		notifications: notifRepo,
		posts:         postRepo,
		likes:         likeRepo,
		pusher:        pusher,
		log:           log,
	}
}

// GetFeed returns the user's notified posts in insertion order, each marked
// with whether the viewer has liked it. A user with no notifications gets an
// empty list, not an error.
func (s *NotificationService) GetFeed(ctx context.Context, userID uint) ([]FeedEntry, error) {
	notifications, err := s.notifications.GetByRecipientID(userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.GetLikedPostIDs(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]FeedEntry, 0, len(notifications))
	for _, n := range notifications {
		post, err := s.posts.GetPostByID(ctx, n.PostID)
		if err != nil {
			// Row outlived its post; skip rather than fail the whole feed.
			s.log.WithFields(logrus.Fields{"post_id": n.PostID, "recipient_id": userID}).
				WithError(err).Warn("notification references missing post")
			continue
		}
		entries = append(entries, FeedEntry{
			Post:  *post,
			Liked: liked[n.PostID],
			Type:  n.Type,
		})
	}
	return entries, nil
}

// GetUnreadCount returns the number of pending notifications for the user.
func (s *NotificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.notifications.GetCount(userID)
}

// Dismiss removes a single notification and returns the removed row.
// Dismissing an absent pair yields repositories.ErrNotFound.
func (s *NotificationService) Dismiss(userID uint, postID string) (*models.Notification, error) {
	notification, err := s.notifications.Delete(userID, postID)
	if err != nil {
		return nil, err
	}
	s.pushCountChanged(userID, postID)
	return notification, nil
}

// DismissAll removes every notification for the user. Always succeeds, even
// with nothing to dismiss.
func (s *NotificationService) DismissAll(userID uint) error {
	if err := s.notifications.DeleteAll(userID); err != nil {
		return err
	}
	s.pushCountChanged(userID, "")
	return nil
}

// pushCountChanged nudges the user's own open connections so UI badges can
// refresh without polling.
func (s *NotificationService) pushCountChanged(userID uint, postID string) {
	if s.pusher == nil {
		return
	}
	payload := map[string]interface{}{}
	if postID != "" {
		payload["post_id"] = postID
	}
	s.pusher.NotifyUser(userID, hub.EventNotification, payload)
}
