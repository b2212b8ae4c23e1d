package services

import (
	"context"
	"errors"
	"sync"

	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errDuplicateLike = errors.New("like already exists")

// In-memory repository fakes. They mirror the semantics of the Postgres and
// Mongo implementations closely enough for service-level tests: unique pair
// constraints, ErrNotFound on missing rows, idempotent subscribe/unsubscribe.

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	r.posts[post.ID.Hex()] = *post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (r *fakePostRepo) GetPostsByBlogID(_ context.Context, blogID uint, _, _ int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, p := range r.posts {
		if p.BlogID == blogID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) GetPostsByHashtag(_ context.Context, tag string, _, _ int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, p := range r.posts {
		for _, t := range p.Hashtags {
			if t == tag {
				posts = append(posts, p)
				break
			}
		}
	}
	return posts, nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context, _, _ int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	r.posts[id] = *post
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeletePostsByBlogID(_ context.Context, blogID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, p := range r.posts {
		if p.BlogID == blogID {
			ids = append(ids, id)
			delete(r.posts, id)
		}
	}
	return ids, nil
}

func (r *fakePostRepo) IncrementLikesCount(_ context.Context, _ string) error    { return nil }
func (r *fakePostRepo) DecrementLikesCount(_ context.Context, _ string) error    { return nil }
func (r *fakePostRepo) IncrementCommentsCount(_ context.Context, _ string) error { return nil }
func (r *fakePostRepo) DecrementCommentsCount(_ context.Context, _ string) error { return nil }

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateIfAbsent(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.notifications {
		if existing.RecipientID == n.RecipientID && existing.PostID == n.PostID {
			return nil
		}
	}
	r.nextID++
	n.ID = r.nextID
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(recipientID uint, postID string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.RecipientID == recipientID && n.PostID == postID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return &n, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotificationRepo) DeleteAll(recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) DeleteByPostIDs(postIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		drop[id] = true
	}
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if !drop[n.PostID] {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

type likeKey struct {
	postID string
	userID uint
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool)}
}

func (r *fakeLikeRepo) CreateLike(like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{like.PostID, like.UserID}
	if r.likes[key] {
		return errDuplicateLike
	}
	r.likes[key] = true
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{postID, userID}
	if !r.likes[key] {
		return repositories.ErrNotFound
	}
	delete(r.likes, key)
	return nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.likes {
		if key.postID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[likeKey{postID, userID}], nil
}

func (r *fakeLikeRepo) GetLikedPostIDs(userID uint) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	liked := make(map[string]bool)
	for key := range r.likes {
		if key.userID == userID {
			liked[key.postID] = true
		}
	}
	return liked, nil
}

func (r *fakeLikeRepo) DeleteLikesByPostIDs(postIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range postIDs {
		for key := range r.likes {
			if key.postID == id {
				delete(r.likes, key)
			}
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{}
}

func (r *fakeSubscriptionRepo) CreateSubscription(sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == sub.UserID && s.BlogID == sub.BlogID {
			return nil
		}
	}
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeSubscriptionRepo) DeleteSubscription(userID, blogID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.UserID == userID && s.BlogID == blogID {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) IsSubscribed(userID, blogID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID && s.BlogID == blogID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) GetSubscriberIDs(blogID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, s := range r.subs {
		if s.BlogID == blogID {
			ids = append(ids, s.UserID)
		}
	}
	return ids, nil
}

func (r *fakeSubscriptionRepo) GetSubscribedBlogIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, s := range r.subs {
		if s.UserID == userID {
			ids = append(ids, s.BlogID)
		}
	}
	return ids, nil
}

func (r *fakeSubscriptionRepo) DeleteSubscriptionsByBlogID(blogID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[:0]
	for _, s := range r.subs {
		if s.BlogID != blogID {
			kept = append(kept, s)
		}
	}
	r.subs = kept
	return nil
}

type fakeBlogRepo struct {
	mu     sync.Mutex
	nextID uint
	blogs  map[uint]models.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[uint]models.Blog)}
}

func (r *fakeBlogRepo) CreateBlog(blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	blog.ID = r.nextID
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *fakeBlogRepo) GetBlogByID(id uint) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &blog, nil
}

func (r *fakeBlogRepo) GetAllBlogs() ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blogs := make([]models.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		blogs = append(blogs, b)
	}
	return blogs, nil
}

func (r *fakeBlogRepo) GetBlogsByUserID(userID uint) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blogs []models.Blog
	for _, b := range r.blogs {
		if b.UserID == userID {
			blogs = append(blogs, b)
		}
	}
	return blogs, nil
}

func (r *fakeBlogRepo) UpdateBlog(blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[blog.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *fakeBlogRepo) DeleteBlog(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments []models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.ID == comment.ID {
			r.comments[i] = *comment
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeCommentRepo) DeleteCommentsByPostIDs(postIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		drop[id] = true
	}
	kept := r.comments[:0]
	for _, c := range r.comments {
		if !drop[c.PostID] {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

// addPost seeds a post and returns its hex id.
func addPost(repo *fakePostRepo, blogID, userID uint) string {
	post := &models.Post{BlogID: blogID, UserID: userID, Title: "t", Content: "c"}
	_ = repo.CreatePost(context.Background(), post)
	return post.ID.Hex()
}
