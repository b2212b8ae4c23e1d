package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/plumekit/plume-backend/pkg/cache"
	"github.com/plumekit/plume-backend/validators"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubPostRepo serves a single post by any id lookup that matches its hex.
type stubPostRepo struct {
	post *models.Post
}

func (r *stubPostRepo) CreatePost(context.Context, *models.Post) error { return nil }
func (r *stubPostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if r.post != nil && r.post.ID.Hex() == id {
		return r.post, nil
	}
	return nil, repositories.ErrNotFound
}
func (r *stubPostRepo) GetPostsByBlogID(context.Context, uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) GetPostsByHashtag(context.Context, string, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) GetAllPosts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) UpdatePost(context.Context, string, *models.Post) error   { return nil }
func (r *stubPostRepo) DeletePost(context.Context, string) error                 { return nil }
func (r *stubPostRepo) DeletePostsByBlogID(context.Context, uint) ([]string, error) {
	return nil, nil
}
func (r *stubPostRepo) IncrementLikesCount(context.Context, string) error    { return nil }
func (r *stubPostRepo) DecrementLikesCount(context.Context, string) error    { return nil }
func (r *stubPostRepo) IncrementCommentsCount(context.Context, string) error { return nil }
func (r *stubPostRepo) DecrementCommentsCount(context.Context, string) error { return nil }

// stubLikeRepo injects CreateLike failures. With concurrentInsert set, a
// failing CreateLike also materializes the row, imitating a concurrent
// request winning the unique-index race.
type stubLikeRepo struct {
	createErr        error
	concurrentInsert bool
	rowExists        bool
}

func (r *stubLikeRepo) CreateLike(*models.Like) error {
	if r.createErr != nil {
		if r.concurrentInsert {
			r.rowExists = true
		}
		return r.createErr
	}
	r.rowExists = true
	return nil
}
func (r *stubLikeRepo) DeleteLike(string, uint) error                 { return nil }
func (r *stubLikeRepo) GetLikesCountByPostID(string) (int64, error)   { return 0, nil }
func (r *stubLikeRepo) HasUserLikedPost(string, uint) (bool, error)   { return r.rowExists, nil }
func (r *stubLikeRepo) GetLikedPostIDs(uint) (map[string]bool, error) { return nil, nil }
func (r *stubLikeRepo) DeleteLikesByPostIDs([]string) error           { return nil }

func likeRequestContext(postID string) echo.Context {
	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes", strings.NewReader(`{"post_id":"`+postID+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", &models.JwtCustomClaims{UserID: 1})
	return c
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *echo.HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, code, httpErr.Code)
}

func TestLikePostAlreadyLikedReturnsConflict(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID(), UserID: 2}
	likeRepo := &stubLikeRepo{rowExists: true}
	h := NewLikeHandler(likeRepo, &stubPostRepo{post: post}, nil, cache.NewLikeCounter(nil, nil))

	err := h.LikePost(likeRequestContext(post.ID.Hex()))
	assertHTTPError(t, err, http.StatusConflict)
}

func TestLikePostLostRaceReturnsConflict(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID(), UserID: 2}
	likeRepo := &stubLikeRepo{
		createErr:        errors.New("duplicate key value violates unique constraint"),
		concurrentInsert: true,
	}
	h := NewLikeHandler(likeRepo, &stubPostRepo{post: post}, nil, cache.NewLikeCounter(nil, nil))

	err := h.LikePost(likeRequestContext(post.ID.Hex()))
	assertHTTPError(t, err, http.StatusConflict)
}

func TestLikePostStorageFailureReturnsServerError(t *testing.T) {
	post := &models.Post{ID: primitive.NewObjectID(), UserID: 2}
	likeRepo := &stubLikeRepo{createErr: errors.New("connection refused")}
	h := NewLikeHandler(likeRepo, &stubPostRepo{post: post}, nil, cache.NewLikeCounter(nil, nil))

	err := h.LikePost(likeRequestContext(post.ID.Hex()))
	assertHTTPError(t, err, http.StatusInternalServerError)
}

func TestLikePostUnknownPostReturnsNotFound(t *testing.T) {
	h := NewLikeHandler(&stubLikeRepo{}, &stubPostRepo{}, nil, cache.NewLikeCounter(nil, nil))

	err := h.LikePost(likeRequestContext(primitive.NewObjectID().Hex()))
	assertHTTPError(t, err, http.StatusNotFound)
}
