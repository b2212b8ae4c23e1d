package services

import (
	"errors"
	"testing"

	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func newSubscriptionFixture(t *testing.T) (*SubscriptionService, *fakeBlogRepo, *hub.Hub) {
	t.Helper()
	subs := newFakeSubscriptionRepo()
	blogs := newFakeBlogRepo()
	pusher := hub.New(nil)
	return NewSubscriptionService(subs, blogs, pusher, nil), blogs, pusher
}

func addBlog(t *testing.T, blogs *fakeBlogRepo, ownerID uint) uint {
	t.Helper()
	blog := &models.Blog{UserID: ownerID, Name: "b"}
	assert.NoError(t, blogs.CreateBlog(blog))
	return blog.ID
}

func TestSubscribeIsIdempotent(t *testing.T) {
	svc, blogs, _ := newSubscriptionFixture(t)
	blogID := addBlog(t, blogs, 1)

	assert.NoError(t, svc.Subscribe(5, blogID))
	assert.NoError(t, svc.Subscribe(5, blogID))

	subscribers, err := svc.GetSubscribers(blogID)
	assert.NoError(t, err)
	assert.Equal(t, []uint{5}, subscribers)
}

func TestUnsubscribeWhenNotSubscribed(t *testing.T) {
	svc, blogs, _ := newSubscriptionFixture(t)
	blogID := addBlog(t, blogs, 1)

	assert.NoError(t, svc.Unsubscribe(5, blogID))
}

func TestSubscribeUnknownBlog(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)

	err := svc.Subscribe(5, 42)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	svc, blogs, _ := newSubscriptionFixture(t)
	blogID := addBlog(t, blogs, 1)

	assert.NoError(t, svc.Subscribe(5, blogID))
	assert.NoError(t, svc.Unsubscribe(5, blogID))

	subscribers, err := svc.GetSubscribers(blogID)
	assert.NoError(t, err)
	assert.Empty(t, subscribers)
}

func TestGetAllStatusesCoversEveryBlog(t *testing.T) {
	svc, blogs, _ := newSubscriptionFixture(t)
	followed := addBlog(t, blogs, 1)
	ignored := addBlog(t, blogs, 1)

	assert.NoError(t, svc.Subscribe(5, followed))

	statuses, err := svc.GetAllStatuses(5)
	assert.NoError(t, err)
	assert.Equal(t, map[uint]bool{followed: true, ignored: false}, statuses)
}

func TestSubscribePushesUpdateToOwnConnections(t *testing.T) {
	svc, blogs, pusher := newSubscriptionFixture(t)
	blogID := addBlog(t, blogs, 1)

	events, _ := pusher.Register(5)

	assert.NoError(t, svc.Subscribe(5, blogID))

	select {
	case event := <-events:
		assert.Equal(t, hub.EventSubscriptionUpdate, event.Name)
	default:
		t.Fatal("expected a subscription update event")
	}
}
