package services

import (
	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// SubscriptionService maintains the user→blog follow graph. Subscribe and
// unsubscribe are idempotent; reaching the desired state is never an error.
type SubscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	blogs         repositories.BlogRepository
	pusher        *hub.Hub
	log           *logrus.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	blogRepo repositories.BlogRepository,
	pusher *hub.Hub,
	log *logrus.Logger,
) *SubscriptionService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SubscriptionService{
		subscriptions: subRepo,
		blogs:         blogRepo,
		pusher:        pusher,
		log:           log,
	}
}

// Subscribe follows a blog. Re-subscribing is a no-op.
func (s *SubscriptionService) Subscribe(userID, blogID uint) error {
	if _, err := s.blogs.GetBlogByID(blogID); err != nil {
		return err
	}
	if err := s.subscriptions.CreateSubscription(&models.Subscription{UserID: userID, BlogID: blogID}); err != nil {
		return err
	}
	s.pushUpdate(userID, blogID, true)
	return nil
}

// Unsubscribe unfollows a blog. Unsubscribing when not subscribed is a no-op.
func (s *SubscriptionService) Unsubscribe(userID, blogID uint) error {
	if _, err := s.blogs.GetBlogByID(blogID); err != nil {
		return err
	}
	if err := s.subscriptions.DeleteSubscription(userID, blogID); err != nil {
		return err
	}
	s.pushUpdate(userID, blogID, false)
	return nil
}

// GetSubscribers returns the fan-out set for a blog.
func (s *SubscriptionService) GetSubscribers(blogID uint) ([]uint, error) {
	return s.subscriptions.GetSubscriberIDs(blogID)
}

// GetAllStatuses returns, for every blog, whether the user is subscribed to
// it. Used to paint subscribe buttons across a listing in one round trip.
func (s *SubscriptionService) GetAllStatuses(userID uint) (map[uint]bool, error) {
	blogs, err := s.blogs.GetAllBlogs()
	if err != nil {
		return nil, err
	}
	subscribedIDs, err := s.subscriptions.GetSubscribedBlogIDs(userID)
	if err != nil {
		return nil, err
	}

	subscribed := make(map[uint]bool, len(subscribedIDs))
	for _, id := range subscribedIDs {
		subscribed[id] = true
	}

	statuses := make(map[uint]bool, len(blogs))
	for _, blog := range blogs {
		statuses[blog.ID] = subscribed[blog.ID]
	}
	return statuses, nil
}

func (s *SubscriptionService) pushUpdate(userID, blogID uint, subscribed bool) {
	if s.pusher == nil {
		return
	}
	s.pusher.NotifyUser(userID, hub.EventSubscriptionUpdate, map[string]interface{}{
		"blog_id":    blogID,
		"subscribed": subscribed,
	})
}
